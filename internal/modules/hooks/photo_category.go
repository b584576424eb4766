package hooks

import (
	"context"
	"fmt"

	"github.com/szigetelo/backoffice/internal/modules/model"
	"github.com/szigetelo/backoffice/internal/pkg/lifecycle"
	"github.com/szigetelo/backoffice/internal/pkg/slug"
	"github.com/szigetelo/backoffice/internal/pkg/types"
)

func RegisterPhotoCategorySlug(d *lifecycle.Dispatcher) {
	d.On(model.UIDPhotoCategory, lifecycle.BeforeCreate, photoCategoryBeforeCreate)
	d.On(model.UIDPhotoCategory, lifecycle.BeforeUpdate, photoCategoryBeforeUpdate)
}

func photoCategoryBeforeCreate(_ context.Context, ev *lifecycle.Event) error {
	c, ok := ev.Params.(*model.PhotoCategory)
	if !ok {
		return fmt.Errorf("photo-category beforeCreate: unexpected params %T", ev.Params)
	}
	if c.Name != "" && c.Slug == "" {
		c.Slug = slug.Make(c.Name)
	}
	return nil
}

// photoCategoryBeforeUpdate regenerates the slug on rename unless the payload
// carried a slug of its own, even an empty one.
func photoCategoryBeforeUpdate(_ context.Context, ev *lifecycle.Event) error {
	p, ok := ev.Params.(*model.PhotoCategoryPatch)
	if !ok {
		return fmt.Errorf("photo-category beforeUpdate: unexpected params %T", ev.Params)
	}
	if p.Slug.Set {
		return nil
	}
	if name, ok := p.Name.Get(); ok && name != "" {
		p.Slug = types.Some(slug.Make(name))
	}
	return nil
}
