package controllers

import (
	"net/http"

	"github.com/Monikarana27/ChatBud/middleware"
	"github.com/gin-gonic/gin"
)

// PageController serves the landing and chat pages, redirecting based on
// authentication state.
type PageController struct {
	jwtSecret string
	staticDir string
}

func NewPageController(jwtSecret, staticDir string) *PageController {
	return &PageController{jwtSecret: jwtSecret, staticDir: staticDir}
}

// Landing serves the login/registration page, or sends authenticated users
// straight to the chat.
func (pc *PageController) Landing(c *gin.Context) {
	if _, ok := middleware.CurrentUserID(c, pc.jwtSecret); ok {
		c.Redirect(http.StatusFound, "/chat")
		return
	}
	c.File(pc.staticDir + "/index.html")
}

// ChatPage serves the chat page to authenticated users and bounces everyone
// else to the landing page.
func (pc *PageController) ChatPage(c *gin.Context) {
	if _, ok := middleware.CurrentUserID(c, pc.jwtSecret); !ok {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.File(pc.staticDir + "/chat.html")
}
