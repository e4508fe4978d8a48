package httpserver

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	api := s.echo.Group("/api/v1")

	auth := api.Group("/auth")
	auth.POST("/login", s.login)
	auth.POST("/logout", s.logout, s.middleware.JWT.RequireJWT())

	security := api.Group("/security")
	security.POST("/register", s.register)
	security.POST("/recovery/start", s.startRecovery)
	security.POST("/recovery/verify", s.verifyRecoveryCode)
	security.POST("/recovery/complete", s.completeRecovery)

	protected := security.Group("")
	protected.Use(s.middleware.JWT.RequireJWT())
	protected.POST("/password", s.changePassword)
	protected.GET("/profile", s.getProfile)
	protected.PUT("/profile", s.updateProfile)
}
