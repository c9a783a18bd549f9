package commands

import (
	"sort"
	"strings"
	"sync"

	"github.com/GTANeijasAcc/GTANBot/bot"
	"github.com/bwmarrin/discordgo"
)

// CommandFunc defines the signature for prefix command handlers
type CommandFunc func(b *bot.Bot, s *discordgo.Session, m *discordgo.MessageCreate, args []string)

// SlashFunc defines the signature for slash command handlers
type SlashFunc func(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate)

// CommandInfo holds detailed information about a command
type CommandInfo struct {
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases,omitempty"`
	Description string   `json:"description"`
	Usage       string   `json:"usage"`
	Category    string   `json:"category"`
	// Custom commands are created at runtime and can be deleted again
	Custom bool `json:"custom"`
}

// SlashCommandInfo holds information about slash commands
type SlashCommandInfo struct {
	Name        string                                `json:"name"`
	Description string                                `json:"description"`
	Options     []*discordgo.ApplicationCommandOption `json:"options"`
	Handler     SlashFunc                             `json:"-"`
}

// ModuleInfo represents a complete module with its commands and metadata
type ModuleInfo struct {
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	Category      string             `json:"category"`
	Commands      []CommandInfo      `json:"commands"`
	SlashCommands []SlashCommandInfo `json:"slash_commands"`
}

// CategoryInfo represents a category that contains multiple modules
type CategoryInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Modules     []string `json:"modules"`
}

var (
	mu sync.RWMutex

	registeredModules    = make(map[string]*ModuleInfo)
	registeredCategories = make(map[string]*CategoryInfo)
	commandDetails       = make(map[string]CommandInfo) // Auto-compiled from modules
	slashCommandHandlers = make(map[string]SlashFunc)   // Auto-compiled slash handlers
	slashCommandDetails  = make(map[string]SlashCommandInfo)
	commandMap           = make(map[string]CommandFunc)
	commandAliases       = make(map[string]string)
)

// RegisterCommand registers individual prefix commands (used by modules)
func RegisterCommand(name string, handler CommandFunc, aliases ...string) {
	mu.Lock()
	defer mu.Unlock()

	name = strings.ToLower(name)
	commandMap[name] = handler
	for _, alias := range aliases {
		commandAliases[strings.ToLower(alias)] = name
	}
}

// AddCommand registers a prefix command together with its info, used for
// commands created at runtime.
func AddCommand(info CommandInfo, handler CommandFunc) {
	info.Name = strings.ToLower(info.Name)

	mu.Lock()
	commandDetails[info.Name] = info
	commandMap[info.Name] = handler
	mu.Unlock()
}

// UnregisterCommand removes a prefix command and its aliases. It reports
// whether the command existed.
func UnregisterCommand(name string) bool {
	mu.Lock()
	defer mu.Unlock()

	name = strings.ToLower(name)
	_, exists := commandMap[name]
	delete(commandMap, name)
	delete(commandDetails, name)
	for alias, target := range commandAliases {
		if target == name {
			delete(commandAliases, alias)
		}
	}
	return exists
}

// RegisterModule registers a complete module and auto-compiles command info
func RegisterModule(module *ModuleInfo) {
	mu.Lock()
	defer mu.Unlock()

	registeredModules[module.Name] = module

	// Auto-compile command info from module
	for _, cmd := range module.Commands {
		commandDetails[cmd.Name] = cmd
	}

	// Auto-compile slash command handlers
	for _, slashCmd := range module.SlashCommands {
		slashCommandHandlers[slashCmd.Name] = slashCmd.Handler
		slashCommandDetails[slashCmd.Name] = slashCmd
	}

	// Auto-register category if it doesn't exist
	if module.Category != "" {
		if _, exists := registeredCategories[module.Category]; !exists {
			registeredCategories[module.Category] = &CategoryInfo{
				Name:        module.Category,
				Description: module.Category + " related modules",
				Modules:     []string{},
			}
		}

		// Add module to category if not already there
		category := registeredCategories[module.Category]
		found := false
		for _, modName := range category.Modules {
			if modName == module.Name {
				found = true
				break
			}
		}
		if !found {
			category.Modules = append(category.Modules, module.Name)
		}
	}
}

// ResolveCommand looks up a prefix command by name or alias
func ResolveCommand(name string) (CommandFunc, string, bool) {
	mu.RLock()
	defer mu.RUnlock()

	name = strings.ToLower(name)
	if actual, isAlias := commandAliases[name]; isAlias {
		name = actual
	}
	handler, ok := commandMap[name]
	return handler, name, ok
}

// SlashHandler returns the handler of a slash command
func SlashHandler(name string) (SlashFunc, bool) {
	mu.RLock()
	defer mu.RUnlock()
	h, ok := slashCommandHandlers[name]
	return h, ok
}

// GetCommandInfo returns the info of a prefix or slash command
func GetCommandInfo(name string) (CommandInfo, bool) {
	mu.RLock()
	defer mu.RUnlock()

	name = strings.ToLower(name)
	if actual, isAlias := commandAliases[name]; isAlias {
		name = actual
	}
	if info, ok := commandDetails[name]; ok {
		return info, true
	}
	if slash, ok := slashCommandDetails[name]; ok {
		return CommandInfo{
			Name:        slash.Name,
			Description: slash.Description,
			Usage:       SlashUsage(slash),
			Category:    categoryOfSlash(name),
		}, true
	}
	return CommandInfo{}, false
}

func categoryOfSlash(name string) string {
	for _, module := range registeredModules {
		for _, slashCmd := range module.SlashCommands {
			if slashCmd.Name == name {
				return module.Category
			}
		}
	}
	return ""
}

// SlashUsage renders "/mute <user> [duration] [reason]" from the command options
func SlashUsage(cmd SlashCommandInfo) string {
	parts := []string{"/" + cmd.Name}
	for _, opt := range cmd.Options {
		if opt.Required {
			parts = append(parts, "<"+opt.Name+">")
		} else {
			parts = append(parts, "["+opt.Name+"]")
		}
	}
	return strings.Join(parts, " ")
}

// AllCommands lists every slash and prefix command, sorted by name. A name
// used by both is listed once, as the slash command.
func AllCommands() []CommandInfo {
	mu.RLock()
	seen := make(map[string]bool)
	var out []CommandInfo
	for _, module := range registeredModules {
		for _, slashCmd := range module.SlashCommands {
			seen[slashCmd.Name] = true
			out = append(out, CommandInfo{
				Name:        slashCmd.Name,
				Description: slashCmd.Description,
				Usage:       SlashUsage(slashCmd),
				Category:    module.Category,
			})
		}
	}
	for name, info := range commandDetails {
		if !seen[name] {
			out = append(out, info)
		}
	}
	mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// IsCustom reports whether name is a command created at runtime
func IsCustom(name string) bool {
	mu.RLock()
	defer mu.RUnlock()
	info, ok := commandDetails[strings.ToLower(name)]
	return ok && info.Custom
}

// Exists reports whether a prefix or slash command uses name
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	name = strings.ToLower(name)
	_, prefix := commandMap[name]
	_, alias := commandAliases[name]
	_, slash := slashCommandHandlers[name]
	return prefix || alias || slash
}

// GetCommandsByCategory returns all commands in a specific category using registered modules
func GetCommandsByCategory(category string) []CommandInfo {
	var commands []CommandInfo
	for _, cmd := range AllCommands() {
		if cmd.Category == category {
			commands = append(commands, cmd)
		}
	}
	return commands
}

// GetAllCategories returns the names of all registered categories, sorted
func GetAllCategories() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registeredCategories))
	for name := range registeredCategories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetAllSlashCommands returns all registered slash commands for registration
func GetAllSlashCommands() []*discordgo.ApplicationCommand {
	mu.RLock()
	defer mu.RUnlock()

	var commands []*discordgo.ApplicationCommand
	for _, module := range registeredModules {
		for _, slashCmd := range module.SlashCommands {
			commands = append(commands, &discordgo.ApplicationCommand{
				Name:        slashCmd.Name,
				Description: slashCmd.Description,
				Options:     slashCmd.Options,
			})
		}
	}
	sort.Slice(commands, func(i, j int) bool { return commands[i].Name < commands[j].Name })
	return commands
}
