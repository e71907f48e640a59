package services

import (
	"fmt"

	"github.com/Rakhulsr/go-shop/app/models"
)

// Diff reconciles current against requested: toRemove = current - requested,
// toAdd = requested - current. Duplicates collapse, input order is kept.
func Diff[T comparable](current, requested []T) (toRemove, toAdd []T) {
	want := make(map[T]struct{}, len(requested))
	for _, v := range requested {
		want[v] = struct{}{}
	}
	have := make(map[T]struct{}, len(current))
	for _, v := range current {
		if _, dup := have[v]; dup {
			continue
		}
		have[v] = struct{}{}
		if _, keep := want[v]; !keep {
			toRemove = append(toRemove, v)
		}
	}
	seen := make(map[T]struct{}, len(requested))
	for _, v := range requested {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		if _, ok := have[v]; !ok {
			toAdd = append(toAdd, v)
		}
	}
	return toRemove, toAdd
}

// CheckImagesToDelete accepts the deletion set only when it is a subset of the
// parent's images; nothing may be deleted otherwise.
func CheckImagesToDelete(current []models.Image, requested []uint, entity string) ([]models.Image, error) {
	if len(requested) == 0 {
		return nil, nil
	}
	if len(requested) > len(current) {
		return nil, NewValidationError("images_to_delete", "Too many images!")
	}

	owned := make(map[uint]models.Image, len(current))
	for _, img := range current {
		owned[img.ID] = img
	}

	_, foreign := Diff(imageIDList(current), requested)
	if len(foreign) > 0 {
		return nil, NewValidationError("images_to_delete",
			fmt.Sprintf("Image with such pk doesn't belong to this %s or doesn't exist!", entity))
	}

	selected := make([]models.Image, 0, len(requested))
	seen := make(map[uint]struct{}, len(requested))
	for _, id := range requested {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		selected = append(selected, owned[id])
	}
	return selected, nil
}

func imageIDList(images []models.Image) []uint {
	ids := make([]uint, 0, len(images))
	for _, img := range images {
		ids = append(ids, img.ID)
	}
	return ids
}
