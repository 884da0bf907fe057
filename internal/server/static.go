package server

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

const banner = "API funcionando"

// mountStatic serves the built front end from staticDir. Without a usable
// build the root path only answers with the API banner.
func (s *Server) mountStatic() {
	index, ok := s.frontEndIndex()
	if !ok {
		s.engine.GET("/", func(c *gin.Context) {
			c.String(http.StatusOK, banner)
		})
		return
	}

	s.logger.Info("serving front end", slog.String("dir", s.staticDir))
	s.engine.GET("/", func(c *gin.Context) {
		c.File(index)
	})
	// /progreso, /sprint/:id and /crear are client routes; unknown API paths stay JSON.
	s.engine.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			respondNotFoundRoute(c)
			return
		}
		c.File(index)
	})

	// assets/predeterminadas holds the default project images referenced by "imagen".
	if dir := filepath.Join(s.staticDir, "assets"); isDir(dir) {
		s.engine.StaticFS("/assets", gin.Dir(dir, false))
	}
	if icon := filepath.Join(s.staticDir, "favicon.ico"); isFile(icon) {
		s.engine.StaticFile("/favicon.ico", icon)
	}
}

// frontEndIndex returns the SPA shell when staticDir holds a build.
func (s *Server) frontEndIndex() (string, bool) {
	if s.staticDir == "" {
		return "", false
	}
	if !isDir(s.staticDir) {
		s.logger.Warn("front end build not found, serving API only", slog.String("dir", s.staticDir))
		return "", false
	}
	index := filepath.Join(s.staticDir, "index.html")
	if !isFile(index) {
		s.logger.Warn("front end build has no index.html, serving API only", slog.String("dir", s.staticDir))
		return "", false
	}
	return index, true
}

func respondNotFoundRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"message": "Ruta no encontrada"})
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
