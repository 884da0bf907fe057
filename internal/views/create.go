package views

import (
	"context"
	"errors"
	"strings"
	"time"

	"proyectos/internal/client"
	"proyectos/internal/models"
)

// DefaultImages are the bundled images a project can pick from.
var DefaultImages = [3]string{
	"/assets/predeterminadas/image1.jpg",
	"/assets/predeterminadas/image2.jpg",
	"/assets/predeterminadas/image3.jpg",
}

// isoMillis matches the timestamps the browser front end sends.
const isoMillis = "2006-01-02T15:04:05.000Z"

var (
	ErrNameRequired        = errors.New("project name is required")
	ErrDescriptionRequired = errors.New("project description is required")
	ErrInvalidImage        = errors.New("image must be a bundled default or an image data URL")
)

// CreateForm is the input of the create-project page.
type CreateForm struct {
	Name         string
	Description  string
	DefaultIndex int
	// CustomImage is a data: URL produced by the upload widget.
	CustomImage string
}

// Image resolves the image reference that will be submitted. A custom image
// wins whenever one was loaded; otherwise the selected default is used.
func (f CreateForm) Image() (string, error) {
	if f.CustomImage != "" {
		if !strings.HasPrefix(f.CustomImage, "data:image/") {
			return "", ErrInvalidImage
		}
		return f.CustomImage, nil
	}
	if f.DefaultIndex < 0 || f.DefaultIndex >= len(DefaultImages) {
		return "", ErrInvalidImage
	}
	return DefaultImages[f.DefaultIndex], nil
}

// Build validates the form and produces the project to submit, stamped with now.
func (f CreateForm) Build(now time.Time) (models.Project, error) {
	if strings.TrimSpace(f.Name) == "" {
		return models.Project{}, ErrNameRequired
	}
	if strings.TrimSpace(f.Description) == "" {
		return models.Project{}, ErrDescriptionRequired
	}
	image, err := f.Image()
	if err != nil {
		return models.Project{}, err
	}
	return models.Project{
		Name:        f.Name,
		Description: f.Description,
		Image:       image,
		CreatedAt:   now.UTC().Format(isoMillis),
	}, nil
}

// Submit builds the project and sends it to the API.
func (f CreateForm) Submit(ctx context.Context, api *client.Client, now time.Time) (models.Project, error) {
	p, err := f.Build(now)
	if err != nil {
		return models.Project{}, err
	}
	res := api.CreateProject(ctx, p)
	if !res.OK() {
		return models.Project{}, &ActionError{Action: "create project", Reason: res.Reason, Message: res.Message}
	}
	return res.Value, nil
}
