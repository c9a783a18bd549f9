package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// ExtractUserID extracts the user ID from a mention, also accepting a raw snowflake
func ExtractUserID(mention string) (string, error) {
	userID := mention
	if strings.HasPrefix(mention, "<@") {
		if !strings.HasSuffix(mention, ">") {
			return "", fmt.Errorf("invalid mention format")
		}
		userID = strings.TrimPrefix(strings.TrimSuffix(mention, ">"), "<@")

		// Remove the nickname exclamation mark if present
		userID = strings.TrimPrefix(userID, "!")
	}

	// Validate that the user ID is a valid Snowflake (Discord ID)
	if _, err := strconv.ParseUint(userID, 10, 64); err != nil {
		return "", fmt.Errorf("invalid user ID")
	}

	return userID, nil
}

// GetHighestRole returns the member's role with the highest position, nil if it only has @everyone.
func GetHighestRole(member *discordgo.Member, roles []*discordgo.Role) *discordgo.Role {
	var highestRole *discordgo.Role
	for _, roleID := range member.Roles {
		for _, role := range roles {
			if role.ID == roleID {
				if highestRole == nil || role.Position > highestRole.Position {
					highestRole = role
				}
			}
		}
	}
	return highestRole
}

// UserTag renders a user the way moderators see it in embeds.
func UserTag(u *discordgo.User) string {
	if u == nil {
		return "Unknown"
	}
	if u.Discriminator == "" || u.Discriminator == "0" {
		return u.Username
	}
	return u.Username + "#" + u.Discriminator
}

// SplitList splits a comma separated list, dropping empty entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
