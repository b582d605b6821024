package http

import (
	"net/http"

	"commissions/internal/core"
	applog "commissions/internal/log"
	"commissions/internal/services"
)

func (s *Server) handleListSales(w http.ResponseWriter, r *http.Request) {
	rng, err := parseDateRange(r)
	if err != nil {
		s.writeServiceError(w, r, applog.OpList, err)
		return
	}
	sales, err := s.sales.ListSales(r.Context(), rng)
	if err != nil {
		s.writeServiceError(w, r, applog.OpList, err)
		return
	}
	if sales == nil {
		sales = []core.SaleView{}
	}
	NewResponse().Data(sales).Write(w)
}

func (s *Server) handleGetSale(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeServiceError(w, r, applog.OpRead, err)
		return
	}
	sale, err := s.sales.GetSale(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, applog.OpRead, err)
		return
	}
	NewResponse().Data(sale).Write(w)
}

func (s *Server) handleCreateSale(w http.ResponseWriter, r *http.Request) {
	var in core.CreateSaleInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeDecodeError(w, r, applog.OpCreate, err)
		return
	}

	sale, err := s.sales.CreateSale(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, applog.OpCreate, err)
		return
	}
	NewResponse().
		Status(http.StatusCreated).
		Message(services.SaleRecordedMessage(sale)).
		Data(sale).
		Write(w)
}

func (s *Server) handleUpdateSale(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeServiceError(w, r, applog.OpUpdate, err)
		return
	}
	var in core.UpdateSaleInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeDecodeError(w, r, applog.OpUpdate, err)
		return
	}

	sale, err := s.sales.UpdateSale(r.Context(), id, in)
	if err != nil {
		s.writeServiceError(w, r, applog.OpUpdate, err)
		return
	}
	NewResponse().Message("Sale updated").Data(sale).Write(w)
}

func (s *Server) handleDeleteSale(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeServiceError(w, r, applog.OpDelete, err)
		return
	}

	deleted, err := s.sales.DeleteSale(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, applog.OpDelete, err)
		return
	}
	if !deleted {
		s.writeServiceError(w, r, applog.OpDelete, &core.NotFoundError{Entity: "sale", ID: id})
		return
	}
	NewResponse().Message("Sale deleted").Write(w)
}
