package recommend_resource

import (
	"github.com/inksync/studio-booking/internal/service/resources/models"
)

// Request пожелания клиента
type Request struct {
	Style          string `json:"style"`
	Size           string `json:"size"`
	PreferredDates string `json:"preferredDates"`
	Budget         string `json:"budget"`
	Description    string `json:"description"`
}

// Response рекомендованный мастер и пояснение.
// Resource пустой, если подходящих мастеров нет.
type Response struct {
	Resource *models.ResourceResponse `json:"resource"`
	Message  string                   `json:"message"`
}
