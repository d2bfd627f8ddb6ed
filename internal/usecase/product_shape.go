package usecase

import (
	"kalabin-backend/internal/domain"
)

// URLBuilder turns stored object keys into public URLs. Shaping only; never
// consulted during validation.
type URLBuilder interface {
	BuildPublicURL(key string) string
}

// MediaView is one entry of the unified gallery the API returns: legacy
// images and videos are folded in and keys are resolved to public URLs.
type MediaView struct {
	Type      string `json:"type"`
	URL       string `json:"url"`
	Poster    string `json:"poster,omitempty"`
	Alt       string `json:"alt,omitempty"`
	IsPrimary bool   `json:"isPrimary"`
	Order     int    `json:"order"`
}

// ProductView is the response shape. The shadow fields hide the raw storage
// representation (split media/images/videos) and gate the cost projection.
type ProductView struct {
	*domain.Product
	Media           []MediaView    `json:"media"`
	Images          []domain.Image `json:"images,omitempty"`
	Videos          []domain.Video `json:"videos,omitempty"`
	PrimaryMediaURL string         `json:"primaryMediaUrl,omitempty"`
	Cost            *int64         `json:"cost,omitempty"`
}

func shapeProduct(p *domain.Product, urls URLBuilder, includeCost bool) *ProductView {
	views := make([]MediaView, 0, len(p.Media)+len(p.Images)+len(p.Videos))
	for _, m := range p.Media {
		url := m.URL
		if url == "" && m.Key != "" && urls != nil {
			url = urls.BuildPublicURL(m.Key)
		}
		views = append(views, MediaView{
			Type:      m.Type,
			URL:       url,
			Poster:    m.Poster,
			Alt:       m.Alt,
			IsPrimary: m.IsPrimary,
			Order:     m.Order,
		})
	}
	for _, img := range p.Images {
		views = append(views, MediaView{
			Type:      domain.MediaTypeImage,
			URL:       img.URL,
			Alt:       img.Alt,
			IsPrimary: img.IsPrimary,
			Order:     len(views),
		})
	}
	for _, v := range p.Videos {
		views = append(views, MediaView{
			Type:   domain.MediaTypeVideo,
			URL:    v.URL,
			Poster: v.Poster,
			Alt:    v.Title,
			Order:  len(views),
		})
	}

	primary := ""
	for _, v := range views {
		if v.IsPrimary {
			primary = v.URL
			break
		}
	}
	if primary == "" && len(views) > 0 {
		primary = views[0].URL
	}

	view := &ProductView{
		Product:         p,
		Media:           views,
		PrimaryMediaURL: primary,
	}
	if includeCost {
		view.Cost = p.Cost
	}
	return view
}
