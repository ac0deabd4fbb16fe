package httpserver

func (s *Server) setupRoutes() {
	s.echo.GET("/status", s.statusReport)
	s.echo.GET("/health", s.statusReport)
	s.echo.GET("/live", s.liveness)
	s.echo.GET("/metrics", s.metricsEndpoint)
}
