package api

import (
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/jo-france/reservation-api/docs"
	v1 "github.com/jo-france/reservation-api/internal/api/handler/v1"
	"github.com/jo-france/reservation-api/internal/api/middleware"
	"github.com/jo-france/reservation-api/internal/config"
	"github.com/jo-france/reservation-api/internal/repository"
	"github.com/jo-france/reservation-api/internal/repository/dao"
	"github.com/jo-france/reservation-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB, redisClient *redis.Client) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	userSvc := s.initUserService(db)
	authHandler := s.initAuthHandler(db, redisClient)
	userHandler := v1.NewUserHandler(userSvc)
	offerHandler := s.initOfferHandler(db)
	orderHandler := s.initOrderHandler(db, redisClient)
	s.MountHandlers(userSvc, authHandler, userHandler, offerHandler, orderHandler)

	return s
}

func (s *Server) initUserService(db *gorm.DB) *service.UserService {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)

	return service.NewUserService(repo)
}

func (s *Server) initAuthHandler(db *gorm.DB, redisClient *redis.Client) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	orderSvc := s.initOrderService(db, redisClient)

	return v1.NewAuthHandler(s.Config.API, svc, orderSvc)
}

func (s *Server) initOfferHandler(db *gorm.DB) *v1.OfferHandler {
	offerDAO := dao.NewOfferDAO(db)
	repo := repository.NewOfferRepository(offerDAO)
	svc := service.NewOfferService(repo)

	return v1.NewOfferHandler(svc)
}

func (s *Server) initOrderService(db *gorm.DB, redisClient *redis.Client) *service.OrderService {
	orderDAO := dao.NewOrderDAO(db)
	orderRepo := repository.NewOrderRepository(orderDAO)
	offerRepo := repository.NewOfferRepository(dao.NewOfferDAO(db))
	selections := repository.NewSelectionStore(redisClient, time.Duration(s.Config.Redis.SelectionTTLMinutes)*time.Minute)

	return service.NewOrderService(orderRepo, offerRepo, selections)
}

func (s *Server) initOrderHandler(db *gorm.DB, redisClient *redis.Client) *v1.OrderHandler {
	orderSvc := s.initOrderService(db, redisClient)

	paymentRepo := repository.NewPaymentRepository(dao.NewPaymentDAO(db))
	orderRepo := repository.NewOrderRepository(dao.NewOrderDAO(db))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	offerRepo := repository.NewOfferRepository(dao.NewOfferDAO(db))
	paymentSvc := service.NewPaymentService(paymentRepo, orderRepo, userRepo, offerRepo)

	return v1.NewOrderHandler(orderSvc, paymentSvc)
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(userSvc *service.UserService, authHandler *v1.AuthHandler, userHandler *v1.UserHandler, offerHandler *v1.OfferHandler, orderHandler *v1.OrderHandler) {
	const basePath = "/api/v1"

	authenticator := middleware.NewAuthenticator(s.Config.API.JWTSigningKey)

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/signup", authHandler.HandleSignup)
		public.POST("/auth/login", authHandler.HandleLogin)
		public.GET("/offers", offerHandler.HandleListOffers)
	}

	// Offer selection serves both anonymous visitors and logged-in
	// users, so the JWT is optional here.
	selection := s.Router.Group(basePath, authenticator.OptionalJWT())
	{
		selection.POST("/offers/:offerID/select", orderHandler.HandleSelectOffer)
	}

	users := s.Router.Group(basePath, authenticator.VerifyJWT())
	{
		users.GET("/users/:userID", userHandler.HandleGetUser)
		users.POST("/orders", orderHandler.HandleAddToCart)
		users.GET("/orders", orderHandler.HandleListOrders)
		users.POST("/orders/:orderID/cancel", orderHandler.HandleCancelOrder)
		users.POST("/orders/:orderID/confirm", orderHandler.HandleConfirmPayment)
	}

	admin := s.Router.Group(basePath, authenticator.VerifyJWT(), middleware.RequireAdmin(userSvc))
	{
		admin.POST("/offers", offerHandler.HandleCreateOffer)
		admin.DELETE("/offers/:offerID", offerHandler.HandleDeleteOffer)
		admin.GET("/admin/stats", offerHandler.HandleStats)
		admin.GET("/admin/users", userHandler.HandleListUsers)
		admin.GET("/admin/orders", orderHandler.HandleListAllOrders)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "JO France Reservation API"
	docs.SwaggerInfo.Description = "Ticket reservation API for the JO France event."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
