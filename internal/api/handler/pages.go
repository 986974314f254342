package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/martijn/miniblog/internal/api/middleware"
)

// PageHandler serves the HTML shells. The pages carry no business logic;
// everything happens through the JS client talking to /api. The only server
// side behavior is the login/admin redirect guards.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

func (h *PageHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{"title": "Posts"})
}

func (h *PageHandler) Login(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"title": "Log in"})
}

func (h *PageHandler) Register(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{"title": "Register"})
}

func (h *PageHandler) CreatePost(c *gin.Context) {
	if middleware.Caller(c) == nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	c.HTML(http.StatusOK, "create_post.html", gin.H{"title": "New post"})
}

func (h *PageHandler) EditPost(c *gin.Context) {
	if middleware.Caller(c) == nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	c.HTML(http.StatusOK, "edit_post.html", gin.H{
		"title":  "Edit post",
		"postID": c.Param("id"),
	})
}

func (h *PageHandler) Admin(c *gin.Context) {
	caller := middleware.Caller(c)
	if caller == nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	if !caller.IsAdmin {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "admin.html", gin.H{"title": "Administration"})
}
