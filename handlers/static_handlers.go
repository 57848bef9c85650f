package handlers

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	indexFile         = "index.html"
	staticCacheHeader = "public, max-age=3600"
)

var staticContentTypes = map[string]string{
	".css":   "text/css; charset=utf-8",
	".js":    "application/javascript; charset=utf-8",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".svg":   "image/svg+xml",
	".woff2": "font/woff2",
	".html":  "text/html; charset=utf-8",
}

// staticContentType maps a file name to the Content-Type it is served with.
func staticContentType(name string) string {
	if ct, ok := staticContentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return "text/plain; charset=utf-8"
}

// ServeIndex godoc
// @Summary Serve the web UI entry point
// @Tags ui
// @Produce html
// @Success 200 {string} string "index.html"
// @Failure 404 {object} utils.ErrorResponse "Index file not found"
// @Router / [get]
func (h *ApplicationHandler) ServeIndex(c *fiber.Ctx) error {
	return h.sendIndex(c)
}

// ServeSPA serves a file from the UI directory when one exists at the
// requested path, and index.html otherwise so client-side routes resolve.
func (h *ApplicationHandler) ServeSPA(c *fiber.Ctx) error {
	if path, ok := h.resolveUIPath(c.Params("*")); ok {
		info, err := os.Stat(path)
		if err == nil && info.Mode().IsRegular() {
			content, err := os.ReadFile(path)
			if err != nil {
				h.Logger.WithError(err).WithField("path", path).Error("Failed to read static file")
				return fiber.NewError(fiber.StatusInternalServerError, "File processing failed")
			}
			c.Set(fiber.HeaderContentType, staticContentType(path))
			c.Set(fiber.HeaderCacheControl, staticCacheHeader)
			return c.Send(content)
		}
	}
	return h.sendIndex(c)
}

func (h *ApplicationHandler) sendIndex(c *fiber.Ctx) error {
	index := filepath.Join(h.UIDir, indexFile)
	content, err := os.ReadFile(index)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Page not found")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(content)
}

// resolveUIPath joins rel onto the UI directory, refusing anything that
// would escape it.
func (h *ApplicationHandler) resolveUIPath(rel string) (string, bool) {
	if rel == "" {
		return "", false
	}
	root, err := filepath.Abs(h.UIDir)
	if err != nil {
		return "", false
	}
	full := filepath.Join(root, filepath.FromSlash(rel))
	if full != root && !strings.HasPrefix(full, root+string(filepath.Separator)) {
		return "", false
	}
	return full, true
}
