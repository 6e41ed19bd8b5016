package models

import "time"

type ChatMessage struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	UserImage string    `json:"userImage,omitempty"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

type RepoEntry struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Path        string  `json:"path"`
	DownloadURL *string `json:"download_url"`
	URL         string  `json:"url"`
}

type ImportedRepo struct {
	Info       map[string]any `json:"info"`
	FileTree   []RepoEntry    `json:"fileTree"`
	ImportedBy string         `json:"importedBy"`
	ImportedAt time.Time      `json:"importedAt"`
}
