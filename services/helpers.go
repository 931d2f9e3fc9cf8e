package services

import (
	"fmt"
	"strings"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/storage"
)

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// --- Хелперы для заполнения публичных URL картинок ---

func populateTeamLogoURL(team *models.Team, uploader storage.FileUploader) {
	if team != nil && team.LogoKey != nil && *team.LogoKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*team.LogoKey)
		if url != "" {
			team.LogoURL = &url
		}
	}
}

func populatePlayerPhotoURL(player *models.Player, uploader storage.FileUploader) {
	if player != nil && player.PhotoKey != nil && *player.PhotoKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*player.PhotoKey)
		if url != "" {
			player.PhotoURL = &url
		}
	}
}

func GetExtensionFromContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	default:
		parts := strings.Split(contentType, "/")
		if len(parts) == 2 && strings.HasPrefix(parts[0], "image") && parts[1] != "" {
			ext := "." + strings.Split(parts[1], "+")[0]
			return ext, nil
		}
		return "", fmt.Errorf("could not determine file extension from content type: '%s'", contentType)
	}
}
