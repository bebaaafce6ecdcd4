package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// DefaultRestaurantPicture is used when a restaurant registers without an
// image or with a disallowed file type.
const DefaultRestaurantPicture = "default_restaurant.jpg"

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// AllowedFile reports whether the filename carries an accepted image extension.
func AllowedFile(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// SavePicture stores an optional multipart upload under the upload folder and
// returns the stored filename. The file is renamed after the owning entity so
// re-uploads overwrite instead of piling up. If no file was sent, or the
// extension is not allowed, the fallback filename is returned instead.
func SavePicture(c *gin.Context, field, entityName, uploadFolder, fallback string) (string, error) {
	file, err := c.FormFile(field)
	if err != nil || file == nil {
		return fallback, nil
	}
	if !AllowedFile(file.Filename) {
		return fallback, nil
	}

	if err := os.MkdirAll(uploadFolder, 0o755); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("%s.jpeg", sanitizeFilename(entityName))
	if err := c.SaveUploadedFile(file, filepath.Join(uploadFolder, filename)); err != nil {
		return "", err
	}
	return filename, nil
}

func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", "..", "_", " ", "_")
	return replacer.Replace(name)
}
