package server

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// resolve maps a URL path to a file under root. Directories resolve to their
// index.html; anything missing resolves to the root index.html. Paths with a
// dot-prefixed segment (.env, .git) never resolve.
func resolve(root, urlPath string) (string, bool) {
	root, err := filepath.Abs(root)
	if err != nil {
		return "", false
	}
	clean := path.Clean("/" + urlPath)
	if hidden(clean) {
		return "", false
	}
	full := filepath.Join(root, filepath.FromSlash(clean))
	if full != root && !strings.HasPrefix(full, root+string(filepath.Separator)) {
		return "", false
	}

	if info, err := os.Stat(full); err == nil {
		if !info.IsDir() {
			return full, true
		}
		if idx := filepath.Join(full, "index.html"); isFile(idx) {
			return idx, true
		}
	}

	if idx := filepath.Join(root, "index.html"); isFile(idx) {
		return idx, true
	}
	return "", false
}

func hidden(cleanPath string) bool {
	for _, seg := range strings.Split(cleanPath, "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

func staticHandler(root string) gin.HandlerFunc {
	if root == "" {
		root = "."
	}
	return func(c *gin.Context) {
		file, ok := resolve(root, c.Request.URL.Path)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.File(file)
	}
}
