package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rakhulsr/go-shop/app/models"
	"github.com/Rakhulsr/go-shop/app/repositories"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// attachableOwners is the fixed allow-list of image owner types, with the
// label used in messages.
var attachableOwners = []struct {
	kind  string
	label string
}{
	{models.OwnerProduct, "Product"},
	{models.OwnerFeedback, "Feedback"},
}

func ownerLabel(kind string) (string, bool) {
	for _, o := range attachableOwners {
		if o.kind == kind {
			return o.label, true
		}
	}
	return "", false
}

func unsupportedOwnerMessage() string {
	labels := make([]string, 0, len(attachableOwners))
	for _, o := range attachableOwners {
		labels = append(labels, "'"+o.label+"'")
	}
	return fmt.Sprintf("This class does not support images. Supported classes are [%s]", strings.Join(labels, ", "))
}

// OwnerRef is an unresolved (type, id) pair.
type OwnerRef struct {
	Type string
	ID   uint
}

// ImageOwnerInput accepts the owner either as a content_type/object_id pair or
// through one of the product/feedback shorthands. Exactly one must be given.
type ImageOwnerInput struct {
	ContentType string `json:"content_type" mapstructure:"content_type"`
	ObjectID    uint   `json:"object_id" mapstructure:"object_id"`
	Product     *uint  `json:"product" mapstructure:"product"`
	Feedback    *uint  `json:"feedback" mapstructure:"feedback"`
}

func (in ImageOwnerInput) Ref() (OwnerRef, error) {
	var refs []OwnerRef
	if in.ContentType != "" || in.ObjectID != 0 {
		if in.ContentType == "" || in.ObjectID == 0 {
			return OwnerRef{}, NewValidationError("content_type", "content_type and object_id must be provided together.")
		}
		refs = append(refs, OwnerRef{Type: strings.ToLower(strings.TrimSpace(in.ContentType)), ID: in.ObjectID})
	}
	if in.Product != nil {
		refs = append(refs, OwnerRef{Type: models.OwnerProduct, ID: *in.Product})
	}
	if in.Feedback != nil {
		refs = append(refs, OwnerRef{Type: models.OwnerFeedback, ID: *in.Feedback})
	}

	switch len(refs) {
	case 0:
		return OwnerRef{}, NewValidationError("content_type", "Image owner is not set.")
	case 1:
		return refs[0], nil
	default:
		return OwnerRef{}, NewValidationError("content_type", "Image must be attached to exactly one owner.")
	}
}

// AttachmentOwner is the resolved owner. Exactly one of Product and Feedback is set.
type AttachmentOwner struct {
	Kind     string
	Product  *models.Product
	Feedback *models.Feedback
}

func (o AttachmentOwner) ID() uint {
	switch o.Kind {
	case models.OwnerProduct:
		return o.Product.ID
	case models.OwnerFeedback:
		return o.Feedback.ID
	}
	return 0
}

// Dir is the storage directory for the owner's files, e.g. product_images/product_7.
func (o AttachmentOwner) Dir() string {
	return fmt.Sprintf("%s_images/%s_%d", o.Kind, o.Kind, o.ID())
}

func ProductOwner(p *models.Product) AttachmentOwner {
	return AttachmentOwner{Kind: models.OwnerProduct, Product: p}
}

func FeedbackOwner(f *models.Feedback) AttachmentOwner {
	return AttachmentOwner{Kind: models.OwnerFeedback, Feedback: f}
}

type AttachmentResolver struct {
	products repositories.ProductRepositoryImpl
	feedback repositories.FeedbackRepositoryImpl
}

func NewAttachmentResolver(products repositories.ProductRepositoryImpl, feedback repositories.FeedbackRepositoryImpl) *AttachmentResolver {
	return &AttachmentResolver{products: products, feedback: feedback}
}

func (r *AttachmentResolver) WithTx(tx *gorm.DB) *AttachmentResolver {
	return &AttachmentResolver{products: r.products.WithTx(tx), feedback: r.feedback.WithTx(tx)}
}

// Resolve checks the owner type against the allow-list before looking the
// owner up, so an unsupported type fails even when a row with that id exists.
func (r *AttachmentResolver) Resolve(ctx context.Context, ref OwnerRef) (AttachmentOwner, error) {
	label, ok := ownerLabel(ref.Type)
	if !ok {
		return AttachmentOwner{}, NewValidationError("content_type", unsupportedOwnerMessage())
	}
	missing := NewValidationError("content_type",
		fmt.Sprintf("%s object with primary key %d doesn't exist", label, ref.ID))

	switch ref.Type {
	case models.OwnerProduct:
		product, err := r.products.GetByID(ctx, ref.ID, repositories.ProductFilter{})
		if err != nil {
			return AttachmentOwner{}, errors.Wrap(err, "resolve product owner")
		}
		if product == nil {
			return AttachmentOwner{}, missing
		}
		return ProductOwner(product), nil
	case models.OwnerFeedback:
		feedback, err := r.feedback.GetByID(ctx, ref.ID, repositories.FeedbackFilter{})
		if err != nil {
			return AttachmentOwner{}, errors.Wrap(err, "resolve feedback owner")
		}
		if feedback == nil {
			return AttachmentOwner{}, missing
		}
		return FeedbackOwner(feedback), nil
	}
	return AttachmentOwner{}, NewValidationError("content_type", unsupportedOwnerMessage())
}
