package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/jwtclient/internal/common"
	"github.com/gorilla/mux"
)

// Handler returns the routing table wrapped in request logging.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc(common.RouteHealth, s.health).Methods(http.MethodGet)

	authRoutes := router.NewRoute().Subrouter()
	authRoutes.Use(s.rateLimit)
	authRoutes.HandleFunc(common.RouteRegister, s.register).Methods(http.MethodPost)
	authRoutes.HandleFunc(common.RouteLogin, s.login).Methods(http.MethodPost)
	authRoutes.HandleFunc(common.RouteRefresh, s.refresh).Methods(http.MethodPost)
	authRoutes.HandleFunc(common.RouteLogout, s.logout).Methods(http.MethodPost)

	protected := router.NewRoute().Subrouter()
	protected.Use(s.requireAccessToken)
	protected.HandleFunc(common.RouteProfile, s.profile).Methods(http.MethodGet)
	protected.HandleFunc(common.RouteItems, s.listItems).Methods(http.MethodGet)
	protected.HandleFunc(common.RouteItems, s.createItem).Methods(http.MethodPost)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMsg(w, http.StatusNotFound, "Not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMsg(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return s.logRequests(router)
}
