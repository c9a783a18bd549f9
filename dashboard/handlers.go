package dashboard

import (
	"net/http"

	"emperror.dev/errors"
	"github.com/GTANeijasAcc/GTANBot/bot"
	"github.com/GTANeijasAcc/GTANBot/commands"
	"github.com/GTANeijasAcc/GTANBot/commands/custom"
	"github.com/GTANeijasAcc/GTANBot/presence"
	"github.com/gin-gonic/gin"
)

type statsResponse struct {
	bot.Stats
	Commands int `json:"commands"`
}

func (s *Server) currentStats() statsResponse {
	return statsResponse{
		Stats:    s.deps.Bot.Stats(),
		Commands: len(commands.AllCommands()),
	}
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}

func (s *Server) stats(c *gin.Context) {
	c.JSON(http.StatusOK, s.currentStats())
}

func (s *Server) guilds(c *gin.Context) {
	c.JSON(http.StatusOK, s.deps.Bot.Guilds())
}

func (s *Server) listCommands(c *gin.Context) {
	if category := c.Query("category"); category != "" {
		list := commands.GetCommandsByCategory(category)
		if list == nil {
			list = []commands.CommandInfo{}
		}
		c.JSON(http.StatusOK, list)
		return
	}
	c.JSON(http.StatusOK, commands.AllCommands())
}

func (s *Server) categories(c *gin.Context) {
	c.JSON(http.StatusOK, commands.GetAllCategories())
}

func (s *Server) logs(c *gin.Context) {
	c.JSON(http.StatusOK, s.deps.Logs.Entries())
}

func (s *Server) presenceInfo(c *gin.Context) {
	c.JSON(http.StatusOK, s.deps.Presence.Info())
}

type presenceStateRequest struct {
	StateIndex *int `json:"stateIndex" binding:"required"`
}

func (s *Server) setPresenceState(c *gin.Context) {
	var req presenceStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "stateIndex is required")
		return
	}

	if err := s.deps.Presence.SetState(*req.StateIndex); err != nil {
		if errors.Is(err, presence.ErrInvalidState) {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		logger.WithError(err).Error("Failed updating presence from dashboard")
		fail(c, http.StatusInternalServerError, "Failed to update presence")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Presence state updated"})
}

type createCommandRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Usage       string `json:"usage"`
	Response    string `json:"response"`
}

func (s *Server) createCommand(c *gin.Context) {
	var req createCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, custom.ErrMissingFields.Error())
		return
	}

	cmd, err := s.deps.Commands.Create(custom.Command{
		Name:        req.Name,
		Description: req.Description,
		Usage:       req.Usage,
		Response:    req.Response,
	})
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Command created successfully",
			"command": cmd,
		})
	case errors.Is(err, custom.ErrMissingFields), errors.Is(err, custom.ErrInvalidName), errors.Is(err, custom.ErrExists):
		fail(c, http.StatusBadRequest, err.Error())
	default:
		logger.WithError(err).Error("Failed creating command")
		fail(c, http.StatusInternalServerError, "Failed to create command")
	}
}

func (s *Server) deleteCommand(c *gin.Context) {
	err := s.deps.Commands.Delete(c.Param("name"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Command deleted successfully"})
	case errors.Is(err, custom.ErrProtected), errors.Is(err, custom.ErrBuiltin):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, custom.ErrNotFound):
		fail(c, http.StatusNotFound, err.Error())
	default:
		logger.WithError(err).Error("Failed deleting command")
		fail(c, http.StatusInternalServerError, "Failed to delete command")
	}
}

func (s *Server) page(c *gin.Context) {
	c.HTML(http.StatusOK, "dashboard", gin.H{
		"Stats":    s.currentStats(),
		"Presence": s.deps.Presence.Info(),
		"Guilds":   s.deps.Bot.Guilds(),
	})
}
