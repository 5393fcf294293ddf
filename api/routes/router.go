package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leonfashion/fashionshop-backend/api/controllers"
	"github.com/leonfashion/fashionshop-backend/api/middleware"
	"github.com/leonfashion/fashionshop-backend/internal/auth"
	"github.com/leonfashion/fashionshop-backend/internal/categories"
	"github.com/leonfashion/fashionshop-backend/internal/customers"
	"github.com/leonfashion/fashionshop-backend/internal/notifications"
	"github.com/leonfashion/fashionshop-backend/internal/orders"
	"github.com/leonfashion/fashionshop-backend/internal/permissions"
	"github.com/leonfashion/fashionshop-backend/internal/products"
	"github.com/leonfashion/fashionshop-backend/internal/roles"
	"github.com/leonfashion/fashionshop-backend/internal/sliders"
	"github.com/leonfashion/fashionshop-backend/internal/users"
	"github.com/leonfashion/fashionshop-backend/pkg/config"
	"github.com/leonfashion/fashionshop-backend/pkg/db"
	"github.com/leonfashion/fashionshop-backend/pkg/logger"
	"github.com/leonfashion/fashionshop-backend/pkg/metrics"
	"github.com/leonfashion/fashionshop-backend/pkg/redis"
	"github.com/leonfashion/fashionshop-backend/pkg/storage"
)

const (
	roleSuperadmin = "superadmin"
	roleAdmin      = "admin"
	roleStaff      = "staff"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	metricsRegistry *metrics.Registry,
	principalResolver middleware.PrincipalResolver,
	fileStore storage.Storage,
	authService auth.Service,
	adminRegisterService auth.AdminRegisterService,
	usersService users.Service,
	customersService customers.Service,
	rolesService roles.Service,
	permissionsService permissions.Service,
	categoriesService categories.Service,
	productsService products.Service,
	slidersService sliders.Service,
	notificationsService notifications.Service,
	ordersRepo *orders.Repository,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if metricsRegistry != nil {
		r.Use(metricsRegistry.Middleware)
		r.Handle("/metrics", metricsRegistry.Handler())
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	// Without redis the limiters degrade to passthroughs. A typed nil client
	// must not reach the middleware's store check.
	loginLimit := middleware.AuthRateLimit(loginPolicy, nil, logg)
	registerLimit := middleware.AuthRateLimit(registerPolicy, nil, logg)
	if redisClient != nil {
		loginLimit = middleware.AuthRateLimit(loginPolicy, redisClient, logg)
		registerLimit = middleware.AuthRateLimit(registerPolicy, redisClient, logg)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisPinger(redisClient)))
	})

	if fileStore != nil {
		if local, ok := fileStore.(*storage.Local); ok {
			fs := http.StripPrefix("/images/", http.FileServer(http.Dir(local.Dir())))
			r.Get("/images/*", fs.ServeHTTP)
		}
	}

	// Storefront surface. No token required, inactive records stay hidden.
	r.Route("/api/public", func(r chi.Router) {
		r.Get("/categories", controllers.CategoriesList(categoriesService, logg, true))
		r.Get("/categories/slug/{slug}", controllers.CategoriesGetBySlug(categoriesService, logg))
		r.Get("/categories/{id}", controllers.CategoriesGet(categoriesService, logg))
		r.Get("/products", controllers.ProductsList(productsService, logg, true))
		r.Get("/products/{id}", controllers.ProductsGet(productsService, logg))
		r.Get("/sliders", controllers.SlidersListActive(slidersService, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(loginLimit).Post("/login", controllers.CustomerLogin(authService, logg))
		r.With(registerLimit).Post("/register", controllers.CustomerRegister(authService, logg))
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		r.With(loginLimit).Post("/login", controllers.AdminLogin(authService, logg))
		if !cfg.App.IsProd() {
			r.With(registerLimit).Post("/register", controllers.AdminRegister(adminRegisterService, logg))
		}
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(cfg.JWT, principalResolver, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuthenticated(logg))
			r.Get("/me", controllers.Me(logg))
			r.Get("/profile", controllers.CustomerProfile(customersService, logg))
			r.Put("/profile", controllers.CustomerUpdateProfile(customersService, logg))
			r.Get("/orders", controllers.OrdersHistory(customersService, ordersRepo, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(cfg.JWT, principalResolver, logg))

		// Access model administration is reserved for the superadmin role.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, roleSuperadmin))
			r.Route("/roles", func(r chi.Router) {
				r.Get("/", controllers.RolesList(rolesService, logg))
				r.Post("/", controllers.RolesCreate(rolesService, logg))
				r.Get("/{id}", controllers.RolesGet(rolesService, logg))
				r.Put("/{id}", controllers.RolesUpdate(rolesService, logg))
				r.Put("/{id}/permissions", controllers.RolesSetPermissions(rolesService, logg))
				r.Delete("/{id}", controllers.RolesDelete(rolesService, logg))
			})
			r.Route("/permissions", func(r chi.Router) {
				r.Get("/", controllers.PermissionsList(permissionsService, logg))
				r.Post("/", controllers.PermissionsCreate(permissionsService, logg))
				r.Get("/{id}", controllers.PermissionsGet(permissionsService, logg))
				r.Put("/{id}", controllers.PermissionsUpdate(permissionsService, logg))
				r.Delete("/{id}", controllers.PermissionsDelete(permissionsService, logg))
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAnyRole(logg, roleAdmin, roleSuperadmin))
			r.Route("/users", func(r chi.Router) {
				r.Get("/", controllers.UsersList(usersService, logg))
				r.Post("/", controllers.UsersCreate(usersService, logg))
				r.Get("/{id}", controllers.UsersGet(usersService, logg))
				r.Put("/{id}", controllers.UsersUpdate(usersService, logg))
				r.Put("/{id}/roles", controllers.UsersAssignRoles(usersService, logg))
				r.Delete("/{id}", controllers.UsersDeactivate(usersService, logg))
			})
			r.Delete("/customers/{id}", controllers.CustomerDeactivate(customersService, logg))
			r.Get("/notifications", controllers.NotificationsList(notificationsService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAnyRole(logg, roleStaff, roleAdmin, roleSuperadmin))
			r.Route("/categories", func(r chi.Router) {
				r.Get("/", controllers.CategoriesList(categoriesService, logg, false))
				r.Post("/", controllers.CategoriesCreate(categoriesService, logg))
				r.Get("/{id}", controllers.CategoriesGet(categoriesService, logg))
				r.Put("/{id}", controllers.CategoriesUpdate(categoriesService, logg))
				r.Delete("/{id}", controllers.CategoriesDelete(categoriesService, logg))
			})
			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.ProductsList(productsService, logg, false))
				r.Post("/", controllers.ProductsCreate(productsService, logg))
				r.Get("/{id}", controllers.ProductsGet(productsService, logg))
				r.Put("/{id}", controllers.ProductsUpdate(productsService, logg))
				r.Put("/{id}/categories", controllers.ProductsSetCategories(productsService, logg))
				r.Put("/{id}/images", controllers.ProductsReplaceImages(productsService, logg))
				r.Delete("/{id}", controllers.ProductsDelete(productsService, logg))
			})
			r.Route("/sliders", func(r chi.Router) {
				r.Get("/", controllers.SlidersListAll(slidersService, logg))
				r.Post("/", controllers.SlidersCreate(slidersService, logg))
				r.Get("/{id}", controllers.SlidersGet(slidersService, logg))
				r.Put("/{id}", controllers.SlidersUpdate(slidersService, logg))
				r.Delete("/{id}", controllers.SlidersDelete(slidersService, logg))
			})
			r.Post("/media", controllers.MediaUpload(fileStore, logg))
			r.Delete("/media", controllers.MediaDelete(fileStore, logg))
		})
	})

	return r
}

// redisPinger keeps the readiness probe from treating an absent redis as a
// failure. A typed nil pointer would otherwise slip past the interface check.
func redisPinger(client *redis.Client) db.Pinger {
	if client == nil {
		return nil
	}
	return client
}
