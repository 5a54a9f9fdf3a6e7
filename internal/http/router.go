package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"silicon.com/app/internal/backend"
	"silicon.com/app/internal/http/flash"
	"silicon.com/app/internal/http/handlers"
	"silicon.com/app/internal/http/handlers/admin"
	"silicon.com/app/internal/http/middleware"
	"silicon.com/app/internal/modules/contacts"
	"silicon.com/app/internal/modules/enquiry"
	"silicon.com/app/internal/storage"
	"silicon.com/app/internal/wizard"
)

type Deps struct {
	Log      *zap.Logger
	Backend  *backend.Client
	Enquiry  *enquiry.Forwarder
	Contacts *contacts.Service
	Wizards  *wizard.Store
	Images   storage.Storage
	Flash    *flash.Codec
	Token    middleware.TokenCfg
}

func NewRouter(d Deps) *gin.Engine {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	r := gin.New()
	r.MaxMultipartMemory = 8 << 20

	r.Use(
		middleware.RequestID(),
		middleware.Logger(d.Log),
		middleware.Recovery(d.Log),
		middleware.ErrorHandler(d.Log),
		middleware.FlashMiddleware(d.Flash),
		middleware.TokenSession(d.Token),
	)

	r.GET("/healthz", handlers.Health{Configured: d.Backend.Configured}.Get)

	catalog := handlers.NewCatalogHandler(d.Backend)
	auth := handlers.NewAuthHandler(d.Backend, d.Token, d.Flash)
	api := r.Group("/api")
	{
		api.GET("/categories", catalog.Categories)
		api.GET("/products", catalog.Products)
		api.GET("/products/:id", catalog.Product)
		api.GET("/accessories", catalog.Accessories)
		api.GET("/accessories/:id", catalog.Accessory)

		api.POST("/contact", handlers.NewContactHandler(d.Contacts).Post)
		api.POST("/product-enquiry", handlers.NewEnquiryHandler(d.Enquiry).Post)

		api.POST("/auth/login", auth.Login)
		api.POST("/auth/signup", auth.Signup)
		api.POST("/auth/logout", auth.Logout)
		api.GET("/flash", handlers.Flash)
	}

	account := r.Group("/account", middleware.RequireAuth(d.Flash))
	{
		account.GET("/api/profile", handlers.NewAccountHandler(d.Backend).Profile)
	}

	wiz := admin.NewWizardHandler(d.Wizards, d.Backend, d.Images, d.Log)
	cat := admin.NewCatalogHandler(d.Backend, d.Log)
	adm := r.Group("/admin/api", middleware.RequireAdmin(d.Flash))
	{
		adm.POST("/wizards", wiz.Create)
		adm.GET("/wizards/:id", wiz.Get)
		adm.DELETE("/wizards/:id", wiz.Delete)
		adm.PATCH("/wizards/:id/fields", wiz.SetFields)
		adm.POST("/wizards/:id/lists/:field", wiz.AddItem)
		adm.PATCH("/wizards/:id/lists/:field/:index", wiz.SetItem)
		adm.DELETE("/wizards/:id/lists/:field/:index", wiz.RemoveItem)
		adm.POST("/wizards/:id/images", wiz.UploadImage)
		adm.POST("/wizards/:id/submit", wiz.Submit)
		adm.POST("/wizards/:id/back", wiz.Back)

		adm.GET("/products", cat.Products)
		adm.GET("/products/:id", cat.Product)
		adm.PATCH("/products/:id/status", cat.SetProductStatus)
		adm.PATCH("/products/:id/schemes", cat.SetScheme)
		adm.GET("/accessories", cat.Accessories)
		adm.GET("/accessories/:id", cat.Accessory)
		adm.PATCH("/accessories/:id/status", cat.SetAccessoryStatus)
		adm.GET("/contacts", cat.Contacts)
		adm.POST("/contacts/:id/reply", cat.ReplyContact)
		adm.GET("/schemes", cat.Schemes)
	}
	return r
}
