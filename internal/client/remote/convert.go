package remote

import (
	"github.com/eranshir/scenic/internal/api"
	"github.com/eranshir/scenic/internal/client/models"
)

// Conversions between local models and wire payloads. Sync state never
// travels on the wire; the engine derives it from the publish/list context.

// SpotToPayload serializes a spot and its owned media for publish.
func SpotToPayload(s *models.Spot) *api.SpotPayload {
	p := &api.SpotPayload{
		ID:         s.ID,
		Title:      s.Title,
		Latitude:   s.Location.Latitude,
		Longitude:  s.Location.Longitude,
		Heading:    s.Heading,
		Elevation:  s.Elevation,
		Tags:       s.Tags,
		Difficulty: int(s.Difficulty),
		Privacy:    string(s.Privacy),
		License:    s.License,
		Status:     string(s.Status),
		CreatorID:  s.CreatorID,
		VoteCount:  s.VoteCount,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
	if s.RemoteID != nil {
		p.RemoteID = *s.RemoteID
	}
	for _, m := range s.Media {
		p.Media = append(p.Media, *MediaToPayload(m))
	}
	return p
}

// SpotFromPayload materializes a pulled spot with its media children.
// Sync state is left zero for the caller to fill.
func SpotFromPayload(p *api.SpotPayload) *models.Spot {
	s := &models.Spot{
		ID:    p.ID,
		Title: p.Title,
		Location: models.Coordinate{
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
		},
		Heading:    p.Heading,
		Elevation:  p.Elevation,
		Tags:       p.Tags,
		Difficulty: models.Difficulty(p.Difficulty),
		Privacy:    models.Privacy(p.Privacy),
		License:    p.License,
		Status:     models.SpotStatus(p.Status),
		CreatorID:  p.CreatorID,
		VoteCount:  p.VoteCount,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	for i := range p.Media {
		s.Media = append(s.Media, MediaFromPayload(&p.Media[i]))
	}
	return s
}

// MediaToPayload serializes one media record.
func MediaToPayload(m *models.Media) *api.MediaPayload {
	p := &api.MediaPayload{
		ID:          m.ID,
		SpotID:      m.SpotID,
		Type:        string(m.Type),
		StorageKey:  m.StorageKey,
		CaptureTime: m.CaptureTime,
		Presets:     m.Presets,
		Filters:     m.Filters,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.RemoteID != nil {
		p.RemoteID = *m.RemoteID
	}
	if m.Exif != nil {
		e := m.Exif
		p.Exif = &api.ExifPayload{
			Make:        e.Make,
			Model:       e.Model,
			Lens:        e.Lens,
			FocalLength: e.FocalLength,
			Aperture:    e.Aperture,
			Shutter:     e.Shutter,
			ISO:         e.ISO,
			Width:       e.Width,
			Height:      e.Height,
			ColorSpace:  e.ColorSpace,
		}
		if e.GPS != nil {
			lat, lon := e.GPS.Latitude, e.GPS.Longitude
			p.Exif.GPSLat = &lat
			p.Exif.GPSLon = &lon
		}
	}
	return p
}

// MediaFromPayload materializes one pulled media record.
func MediaFromPayload(p *api.MediaPayload) *models.Media {
	m := &models.Media{
		ID:          p.ID,
		SpotID:      p.SpotID,
		Type:        models.MediaType(p.Type),
		StorageKey:  p.StorageKey,
		CaptureTime: p.CaptureTime,
		Presets:     p.Presets,
		Filters:     p.Filters,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Exif != nil {
		e := p.Exif
		m.Exif = &models.ExifBlock{
			Make:        e.Make,
			Model:       e.Model,
			Lens:        e.Lens,
			FocalLength: e.FocalLength,
			Aperture:    e.Aperture,
			Shutter:     e.Shutter,
			ISO:         e.ISO,
			Width:       e.Width,
			Height:      e.Height,
			ColorSpace:  e.ColorSpace,
		}
		if e.GPSLat != nil && e.GPSLon != nil {
			m.Exif.GPS = &models.Coordinate{Latitude: *e.GPSLat, Longitude: *e.GPSLon}
		}
	}
	return m
}

// CommentToPayload serializes one comment.
func CommentToPayload(c *models.Comment) *api.CommentPayload {
	p := &api.CommentPayload{
		ID:        c.ID,
		SpotID:    c.SpotID,
		ParentID:  c.ParentID,
		Body:      c.Body,
		AuthorID:  c.AuthorID,
		VoteCount: c.VoteCount,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.RemoteID != nil {
		p.RemoteID = *c.RemoteID
	}
	return p
}

// CommentFromPayload materializes one pulled comment.
func CommentFromPayload(p *api.CommentPayload) *models.Comment {
	return &models.Comment{
		ID:        p.ID,
		SpotID:    p.SpotID,
		ParentID:  p.ParentID,
		Body:      p.Body,
		AuthorID:  p.AuthorID,
		VoteCount: p.VoteCount,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// PlanToPayload serializes a plan and its items for publish.
func PlanToPayload(plan *models.Plan) *api.PlanPayload {
	p := &api.PlanPayload{
		ID:        plan.ID,
		Title:     plan.Title,
		CreatedAt: plan.CreatedAt,
		UpdatedAt: plan.UpdatedAt,
	}
	if plan.RemoteID != nil {
		p.RemoteID = *plan.RemoteID
	}
	for _, item := range plan.Items {
		ip := api.PlanItemPayload{
			ID:        item.ID,
			Position:  item.Position,
			Kind:      string(item.Kind),
			SpotID:    item.SpotID,
			Date:      item.Date,
			StartTime: item.StartTime,
			EndTime:   item.EndTime,
			Timing:    string(item.Timing),
			CreatedAt: item.CreatedAt,
			UpdatedAt: item.UpdatedAt,
		}
		if item.Place != nil {
			ip.Place = &api.PlacePayload{
				Name:     item.Place.Name,
				Address:  item.Place.Address,
				Category: item.Place.Category,
				Hours:    item.Place.Hours,
			}
			if item.Place.Location != nil {
				lat, lon := item.Place.Location.Latitude, item.Place.Location.Longitude
				ip.Place.Lat = &lat
				ip.Place.Lon = &lon
			}
		}
		p.Items = append(p.Items, ip)
	}
	return p
}

// PlanFromPayload materializes a pulled plan with its items.
func PlanFromPayload(p *api.PlanPayload) *models.Plan {
	plan := &models.Plan{
		ID:        p.ID,
		Title:     p.Title,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	for i := range p.Items {
		ip := &p.Items[i]
		item := &models.PlanItem{
			ID:        ip.ID,
			PlanID:    p.ID,
			Position:  ip.Position,
			Kind:      models.PlanItemKind(ip.Kind),
			SpotID:    ip.SpotID,
			Date:      ip.Date,
			StartTime: ip.StartTime,
			EndTime:   ip.EndTime,
			Timing:    models.TimingPreference(ip.Timing),
			CreatedAt: ip.CreatedAt,
			UpdatedAt: ip.UpdatedAt,
		}
		if ip.Place != nil {
			item.Place = &models.PlaceDetails{
				Name:     ip.Place.Name,
				Address:  ip.Place.Address,
				Category: ip.Place.Category,
				Hours:    ip.Place.Hours,
			}
			if ip.Place.Lat != nil && ip.Place.Lon != nil {
				item.Place.Location = &models.Coordinate{Latitude: *ip.Place.Lat, Longitude: *ip.Place.Lon}
			}
		}
		plan.Items = append(plan.Items, item)
	}
	return plan
}
