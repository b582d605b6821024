package http

import (
	"net/http"

	"commissions/internal/core"
	applog "commissions/internal/log"
)

func (s *Server) handleListRepresentatives(w http.ResponseWriter, r *http.Request) {
	reps, err := s.sales.ListRepresentatives(r.Context())
	if err != nil {
		s.writeServiceError(w, r, applog.OpList, err)
		return
	}
	if reps == nil {
		reps = []core.Representative{}
	}
	NewResponse().Data(reps).Write(w)
}

func (s *Server) handleCreateRepresentative(w http.ResponseWriter, r *http.Request) {
	var in core.CreateRepresentativeInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeDecodeError(w, r, applog.OpCreate, err)
		return
	}

	rep, err := s.sales.CreateRepresentative(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, applog.OpCreate, err)
		return
	}
	NewResponse().Status(http.StatusCreated).Message("Representative registered").Data(rep).Write(w)
}

func (s *Server) handleGetRepresentative(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeServiceError(w, r, applog.OpRead, err)
		return
	}
	rep, err := s.sales.GetRepresentative(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, applog.OpRead, err)
		return
	}
	NewResponse().Data(rep).Write(w)
}

func (s *Server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := s.sales.ListCustomers(r.Context())
	if err != nil {
		s.writeServiceError(w, r, applog.OpList, err)
		return
	}
	if customers == nil {
		customers = []core.Customer{}
	}
	NewResponse().Data(customers).Write(w)
}

func (s *Server) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var in core.CreateCustomerInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeDecodeError(w, r, applog.OpCreate, err)
		return
	}

	c, err := s.sales.CreateCustomer(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, applog.OpCreate, err)
		return
	}
	NewResponse().Status(http.StatusCreated).Message("Customer registered").Data(c).Write(w)
}

func (s *Server) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeServiceError(w, r, applog.OpRead, err)
		return
	}
	c, err := s.sales.GetCustomer(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, applog.OpRead, err)
		return
	}
	NewResponse().Data(c).Write(w)
}
