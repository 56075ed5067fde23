package guide

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/guestbites/guestbites/internal/model"
	"github.com/guestbites/guestbites/internal/monitoring"
)

// Searcher returns places near a ZIP code.
type Searcher interface {
	Search(ctx context.Context, zip string) (*model.PlacesPayload, error)
}

// Request is everything a guide page asks for.
type Request struct {
	Zip          string
	PropertyName string
	HostPicks    []model.HostPick
	Custom       []model.CustomPlace
}

// Builder runs the search pipeline and assembles the result.
type Builder struct {
	places    Searcher
	assembler *Assembler
}

// NewBuilder creates a Builder.
func NewBuilder(places Searcher, assembler *Assembler) *Builder {
	return &Builder{places: places, assembler: assembler}
}

// Build never fails: a search error or an empty result yields the
// degraded fallback guide.
func (b *Builder) Build(ctx context.Context, req Request) *View {
	var v *View
	payload, err := b.places.Search(ctx, req.Zip)
	switch {
	case err != nil:
		zap.L().Warn("guide: search failed, serving fallback", zap.String("zip", req.Zip), zap.Error(err))
		v = Fallback(req.Zip, req.HostPicks, req.Custom)
	case payload == nil || len(payload.Results) == 0:
		zap.L().Info("guide: no places found, serving fallback", zap.String("zip", req.Zip))
		v = Fallback(req.Zip, req.HostPicks, req.Custom)
	default:
		v = b.assembler.Assemble(req.Zip, payload.Results, req.HostPicks, req.Custom)
		v.Source = payload.Source
		zap.L().Debug("guide: assembled",
			zap.String("zip", req.Zip),
			zap.String("source", v.Source),
			zap.Int("places", v.Len()),
		)
	}
	v.PropertyName = req.PropertyName

	monitoring.GuidesBuilt.WithLabelValues(strconv.FormatBool(v.Degraded)).Inc()
	return v
}
