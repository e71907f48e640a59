package handlers

import (
	"time"

	"github.com/Rakhulsr/go-shop/app/helpers"
	"github.com/Rakhulsr/go-shop/app/models"
)

type ImageResponse struct {
	ID       uint   `json:"id"`
	Image    string `json:"image"`
	Tip      string `json:"tip"`
	Product  *uint  `json:"product,omitempty"`
	Feedback *uint  `json:"feedback,omitempty"`
}

type CategoryRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type ProductResponse struct {
	ID          uint               `json:"id"`
	Category    *CategoryRef       `json:"category,omitempty"`
	Name        string             `json:"name"`
	Price       string             `json:"price"`
	Description string             `json:"description"`
	Size        string             `json:"size"`
	Weight      float64            `json:"weight"`
	Stock       int                `json:"stock"`
	IsAvailable bool               `json:"is_available"`
	Materials   []string           `json:"materials"`
	Images      []ImageResponse    `json:"images"`
	Feedback    []FeedbackResponse `json:"feedback,omitempty"`
}

type CategoryResponse struct {
	ID              uint               `json:"id"`
	Name            string             `json:"name"`
	ParentCategory  *CategoryResponse  `json:"parent_category"`
	ChildCategories []CategoryResponse `json:"child_categories"`
	Products        []ProductResponse  `json:"products"`
}

type MaterialResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Products []uint `json:"products"`
}

type UserResponse struct {
	ID          uint       `json:"id"`
	Username    string     `json:"username"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Email       string     `json:"email"`
	PhoneNumber string     `json:"phone_number"`
	IsStaff     bool       `json:"is_staff"`
	IsSuperuser bool       `json:"is_superuser"`
	IsActive    bool       `json:"is_active"`
	LastLogin   *time.Time `json:"last_login"`
}

type FeedbackResponse struct {
	ID          uint             `json:"id"`
	AuthorID    uint             `json:"author_id"`
	Author      *UserResponse    `json:"author,omitempty"`
	ProductID   uint             `json:"product_id"`
	Product     *ProductResponse `json:"product,omitempty"`
	Title       string           `json:"title"`
	Content     string           `json:"content"`
	IsModerated bool             `json:"is_moderated"`
	Images      []ImageResponse  `json:"images"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

type AddressResponse struct {
	ID          uint   `json:"id"`
	User        uint   `json:"user"`
	Country     string `json:"country"`
	Region      string `json:"region"`
	City        string `json:"city"`
	Street      string `json:"street"`
	HouseNumber string `json:"house_number"`
	FlatNumber  string `json:"flat_number"`
	PostalCode  uint   `json:"postal_code"`
}

type OrderLine struct {
	ID        uint   `json:"id"`
	ProductID uint   `json:"product"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
}

type OrderResponse struct {
	ID           uint        `json:"id"`
	User         uint        `json:"user"`
	Address      uint        `json:"address"`
	IsPaid       bool        `json:"is_paid"`
	Items        []OrderLine `json:"items"`
	Total        string      `json:"total"`
	TotalDisplay string      `json:"total_display"`
	PaymentURL   string      `json:"payment_url,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

type OrderRef struct {
	ID      uint `json:"id"`
	User    uint `json:"user"`
	Address uint `json:"address"`
	IsPaid  bool `json:"is_paid"`
}

type OrderItemResponse struct {
	ID       uint            `json:"id"`
	Product  ProductResponse `json:"product"`
	Order    OrderRef        `json:"order"`
	Quantity int             `json:"quantity"`
}

func (b *Base) imageResponses(images []models.Image) []ImageResponse {
	out := make([]ImageResponse, 0, len(images))
	for _, img := range images {
		out = append(out, b.imageResponse(img))
	}
	return out
}

func (b *Base) imageResponse(img models.Image) ImageResponse {
	res := ImageResponse{ID: img.ID, Image: b.imageURL(img), Tip: img.Tip}
	ownerID := img.OwnerID
	switch img.OwnerType {
	case models.OwnerProduct:
		res.Product = &ownerID
	case models.OwnerFeedback:
		res.Feedback = &ownerID
	}
	return res
}

// productResponse nests the category only when it was loaded.
func (b *Base) productResponse(p models.Product) ProductResponse {
	res := ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price.StringFixed(2),
		Description: p.Description,
		Size:        p.Size,
		Weight:      p.Weight,
		Stock:       p.Stock,
		IsAvailable: p.IsAvailable,
		Materials:   make([]string, 0, len(p.Materials)),
		Images:      b.imageResponses(p.Images),
	}
	if p.Category.ID != 0 {
		res.Category = &CategoryRef{ID: p.Category.ID, Name: p.Category.Name}
	}
	for _, m := range p.Materials {
		res.Materials = append(res.Materials, m.Name)
	}
	for _, f := range p.Feedback {
		res.Feedback = append(res.Feedback, b.feedbackResponse(f))
	}
	return res
}

func (b *Base) productResponses(products []models.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, b.productResponse(p))
	}
	return out
}

func (b *Base) categoryResponse(c models.Category) CategoryResponse {
	res := CategoryResponse{
		ID:              c.ID,
		Name:            c.Name,
		ChildCategories: make([]CategoryResponse, 0, len(c.ChildCategories)),
		Products:        b.productResponses(c.Products),
	}
	if c.ParentCategory != nil {
		parent := b.categoryResponse(*c.ParentCategory)
		res.ParentCategory = &parent
	}
	for _, child := range c.ChildCategories {
		res.ChildCategories = append(res.ChildCategories, b.categoryResponse(child))
	}
	return res
}

func materialResponse(m models.ProductMaterial) MaterialResponse {
	res := MaterialResponse{ID: m.ID, Name: m.Name, Products: make([]uint, 0, len(m.Products))}
	for _, p := range m.Products {
		res.Products = append(res.Products, p.ID)
	}
	return res
}

func userResponse(u models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		IsStaff:     u.IsStaff,
		IsSuperuser: u.IsSuperuser,
		IsActive:    u.IsActive,
		LastLogin:   u.LastLogin,
	}
}

func (b *Base) feedbackResponse(f models.Feedback) FeedbackResponse {
	res := FeedbackResponse{
		ID:          f.ID,
		AuthorID:    f.AuthorID,
		ProductID:   f.ProductID,
		Title:       f.Title,
		Content:     f.Content,
		IsModerated: f.IsModerated,
		Images:      b.imageResponses(f.Images),
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
	if f.Author.ID != 0 {
		author := userResponse(f.Author)
		res.Author = &author
	}
	if f.Product.ID != 0 {
		product := b.productResponse(f.Product)
		res.Product = &product
	}
	return res
}

func (b *Base) feedbackResponses(feedback []models.Feedback) []FeedbackResponse {
	out := make([]FeedbackResponse, 0, len(feedback))
	for _, f := range feedback {
		out = append(out, b.feedbackResponse(f))
	}
	return out
}

func addressResponse(a models.Address) AddressResponse {
	return AddressResponse{
		ID:          a.ID,
		User:        a.UserID,
		Country:     a.Country,
		Region:      a.Region,
		City:        a.City,
		Street:      a.Street,
		HouseNumber: a.HouseNumber,
		FlatNumber:  a.FlatNumber,
		PostalCode:  a.PostalCode,
	}
}

func orderResponse(o models.Order) OrderResponse {
	total := o.Total()
	res := OrderResponse{
		ID:           o.ID,
		User:         o.UserID,
		Address:      o.AddressID,
		IsPaid:       o.IsPaid,
		Items:        make([]OrderLine, 0, len(o.OrderItems)),
		Total:        total.StringFixed(2),
		TotalDisplay: helpers.FormatRupiah(total),
		PaymentURL:   o.PaymentURL,
		CreatedAt:    o.CreatedAt,
	}
	for _, item := range o.OrderItems {
		res.Items = append(res.Items, OrderLine{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Product.Name,
			Price:     item.Product.Price.StringFixed(2),
			Quantity:  item.Quantity,
		})
	}
	return res
}

func (b *Base) orderItemResponse(item models.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		ID:      item.ID,
		Product: b.productResponse(item.Product),
		Order: OrderRef{
			ID:      item.Order.ID,
			User:    item.Order.UserID,
			Address: item.Order.AddressID,
			IsPaid:  item.Order.IsPaid,
		},
		Quantity: item.Quantity,
	}
}
