package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/Rakhulsr/go-shop/app/handlers"
	"github.com/Rakhulsr/go-shop/app/middlewares"
	"github.com/Rakhulsr/go-shop/app/repositories"
	"github.com/Rakhulsr/go-shop/app/services"
	"github.com/Rakhulsr/go-shop/app/utils/sessions"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
	"gorm.io/gorm"
)

// Deps is everything the router needs from the outside world.
type Deps struct {
	DB       *gorm.DB
	Render   *render.Render
	Storage  services.FileStorage
	Sessions sessions.SessionStore
	Notifier services.Notifier
	Gateway  services.PaymentGateway

	JWTSecret string
	JWTTTL    time.Duration

	MidtransServerKey string
	AppURL            string

	MediaRoot string
	MediaURL  string

	CSRFKey     []byte
	CSRFEnabled bool
	Secure      bool
}

// methods maps an HTTP verb onto the handler serving it for one path.
type methods map[string]http.HandlerFunc

var methodOrder = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}

func (m methods) allow() string {
	allowed := make([]string, 0, len(m)+2)
	for _, verb := range methodOrder {
		if _, ok := m[verb]; ok {
			allowed = append(allowed, verb)
		}
	}
	if _, ok := m[http.MethodGet]; ok {
		allowed = append(allowed, http.MethodHead)
	}
	allowed = append(allowed, http.MethodOptions)
	return strings.Join(allowed, ", ")
}

// dispatch serves the declared verbs and answers anything else with 405.
func dispatch(rnd *render.Render, m methods) http.Handler {
	allow := m.allow()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		verb := r.Method
		if verb == http.MethodHead {
			verb = http.MethodGet
		}
		if h, ok := m[verb]; ok {
			h(w, r)
			return
		}
		w.Header().Set("Allow", allow)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		rnd.JSON(w, http.StatusMethodNotAllowed, map[string]string{
			"detail": "Method \"" + r.Method + "\" not allowed.",
		})
	})
}

func NewRouter(d Deps) http.Handler {
	rnd := d.Render
	if rnd == nil {
		rnd = render.New()
	}

	productRepo := repositories.NewProductRepository(d.DB)
	categoryRepo := repositories.NewCategoryRepository(d.DB)
	materialRepo := repositories.NewMaterialRepository(d.DB)
	imageRepo := repositories.NewImageRepository(d.DB)
	feedbackRepo := repositories.NewFeedbackRepository(d.DB)
	userRepo := repositories.NewUserRepository(d.DB)
	addressRepo := repositories.NewAddressRepository(d.DB)
	orderRepo := repositories.NewOrderRepository(d.DB)
	orderItemRepo := repositories.NewOrderItemRepository(d.DB)

	resolver := services.NewAttachmentResolver(productRepo, feedbackRepo)
	authService := services.NewAuthService(userRepo, d.JWTSecret, d.JWTTTL)
	productService := services.NewProductService(d.DB, productRepo, categoryRepo, materialRepo, imageRepo, d.Storage)
	feedbackService := services.NewFeedbackService(d.DB, feedbackRepo, productRepo, imageRepo, d.Storage, d.Notifier)
	categoryService := services.NewCategoryService(d.DB, categoryRepo, imageRepo, d.Storage)
	materialService := services.NewMaterialService(d.DB, materialRepo, productRepo)
	imageService := services.NewImageService(d.DB, imageRepo, resolver, d.Storage)
	userService := services.NewUserService(d.DB, userRepo, imageRepo, d.Storage)
	addressService := services.NewAddressService(d.DB, addressRepo)
	orderService := services.NewOrderService(d.DB, orderRepo, addressRepo)
	orderItemService := services.NewOrderItemService(d.DB, orderItemRepo, productRepo, orderRepo)
	paymentService := services.NewPaymentService(d.DB, orderRepo, d.Gateway, d.MidtransServerKey, d.AppURL)

	base := handlers.NewBase(rnd, d.Storage)
	authHandler := handlers.NewAuthHandler(base, authService, d.Sessions)
	productHandler := handlers.NewProductHandler(base, productService)
	feedbackHandler := handlers.NewFeedbackHandler(base, feedbackService)
	categoryHandler := handlers.NewCategoryHandler(base, categoryService)
	materialHandler := handlers.NewMaterialHandler(base, materialService)
	imageHandler := handlers.NewImageHandler(base, imageService)
	userHandler := handlers.NewUserHandler(base, userService)
	addressHandler := handlers.NewAddressHandler(base, addressService)
	orderHandler := handlers.NewOrderHandler(base, orderService, paymentService)
	orderItemHandler := handlers.NewOrderItemHandler(base, orderItemService)
	paymentHandler := handlers.NewPaymentHandler(base, paymentService)

	router := mux.NewRouter()
	router.StrictSlash(true)
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rnd.JSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
	})

	handle := func(path string, m methods) {
		router.Handle(path, dispatch(rnd, m))
	}

	handle("/auth/login/", methods{http.MethodPost: authHandler.Login})
	handle("/auth/logout/", methods{http.MethodPost: authHandler.Logout})
	handle("/auth/token/", methods{http.MethodPost: authHandler.Token})

	handle("/products/", methods{http.MethodGet: productHandler.List, http.MethodPost: productHandler.Create})
	handle("/products/{id:[0-9]+}/", methods{
		http.MethodGet:    productHandler.Get,
		http.MethodPut:    productHandler.Update,
		http.MethodDelete: productHandler.Delete,
	})
	handle("/products/{id:[0-9]+}/delete_images/", methods{http.MethodGet: productHandler.DeleteImages})
	handle("/category/{id:[0-9]+}/", methods{http.MethodGet: productHandler.ListByCategory})

	handle("/categories/", methods{http.MethodGet: categoryHandler.List, http.MethodPost: categoryHandler.Create})
	handle("/categories/{id:[0-9]+}/", methods{
		http.MethodGet:    categoryHandler.Get,
		http.MethodPut:    categoryHandler.Update,
		http.MethodDelete: categoryHandler.Delete,
	})

	handle("/product-materials/", methods{http.MethodGet: materialHandler.List, http.MethodPost: materialHandler.Create})
	handle("/product-materials/{id:[0-9]+}/", methods{
		http.MethodGet:    materialHandler.Get,
		http.MethodPut:    materialHandler.Update,
		http.MethodDelete: materialHandler.Delete,
	})

	handle("/images/", methods{http.MethodGet: imageHandler.List, http.MethodPost: imageHandler.Create})
	handle("/images/{id:[0-9]+}/", methods{
		http.MethodGet:    imageHandler.Get,
		http.MethodPut:    imageHandler.Update,
		http.MethodDelete: imageHandler.Delete,
	})

	handle("/feedback/", methods{http.MethodGet: feedbackHandler.List, http.MethodPost: feedbackHandler.Create})
	handle("/feedback/{id:[0-9]+}/", methods{
		http.MethodGet:    feedbackHandler.Get,
		http.MethodPut:    feedbackHandler.Update,
		http.MethodDelete: feedbackHandler.Delete,
	})
	handle("/feedback/{id:[0-9]+}/delete_images/", methods{http.MethodGet: feedbackHandler.DeleteImages})

	handle("/users/", methods{http.MethodGet: userHandler.List, http.MethodPost: userHandler.Create})
	handle("/users/{id:[0-9]+}/", methods{
		http.MethodGet:    userHandler.Get,
		http.MethodPut:    userHandler.Update,
		http.MethodDelete: userHandler.Delete,
	})
	handle("/users/{id:[0-9]+}/addresses/", methods{http.MethodGet: userHandler.Addresses})
	handle("/users/{id:[0-9]+}/feedback/", methods{http.MethodGet: userHandler.Feedback})
	handle("/users/{id:[0-9]+}/orders/", methods{http.MethodGet: userHandler.Orders})

	handle("/addresses/", methods{http.MethodGet: addressHandler.List, http.MethodPost: addressHandler.Create})
	handle("/addresses/{id:[0-9]+}/", methods{
		http.MethodGet:    addressHandler.Get,
		http.MethodPut:    addressHandler.Update,
		http.MethodDelete: addressHandler.Delete,
	})

	handle("/orders/", methods{http.MethodGet: orderHandler.List, http.MethodPost: orderHandler.Create})
	handle("/orders/{id:[0-9]+}/", methods{
		http.MethodGet:    orderHandler.Get,
		http.MethodPut:    orderHandler.Update,
		http.MethodDelete: orderHandler.Delete,
	})
	handle("/orders/{id:[0-9]+}/pay/", methods{http.MethodPost: orderHandler.Pay})

	handle("/order-items/", methods{http.MethodGet: orderItemHandler.List, http.MethodPost: orderItemHandler.Create})
	handle("/order-items/{id:[0-9]+}/", methods{
		http.MethodGet:    orderItemHandler.Get,
		http.MethodPut:    orderItemHandler.Update,
		http.MethodDelete: orderItemHandler.Delete,
	})

	handle("/payments/notification/", methods{http.MethodPost: paymentHandler.Notification})

	if d.MediaRoot != "" && d.MediaURL != "" {
		prefix := "/" + strings.Trim(d.MediaURL, "/") + "/"
		router.PathPrefix(prefix).Methods(http.MethodGet, http.MethodHead).
			Handler(http.StripPrefix(prefix, http.FileServer(http.Dir(d.MediaRoot))))
	}

	var h http.Handler = router
	h = middlewares.Authenticate(authService, d.Sessions, rnd)(h)
	h = middlewares.CSRF(d.CSRFKey, d.CSRFEnabled, d.Secure, rnd, "/payments/notification/", "/auth/token/")(h)
	h = middlewares.MethodOverrideMiddleware(h)
	h = middlewares.Recoverer(rnd)(h)
	h = middlewares.RequestLogger(h)
	return h
}
