package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nvolkova/avcatalog/internal/database"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDBError maps the database error taxonomy onto HTTP statuses.
func writeDBError(w http.ResponseWriter, err error) {
	var ve *database.ValidationError
	var de *database.DuplicateIDError
	var xe *database.DependencyExistsError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Error())
	case errors.As(err, &de):
		writeError(w, http.StatusConflict, de.Error())
	case errors.As(err, &xe):
		writeError(w, http.StatusConflict, xe.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// --- Manufacturers ---

// handleManufacturers handles /api/manufacturers (collection)
func (s *Server) handleManufacturers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		filter := database.ManufacturerFilter{
			Name:    r.URL.Query().Get("name"),
			Country: r.URL.Query().Get("country"),
		}
		items, err := s.db.ListManufacturers(filter)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if items == nil {
			items = []database.Manufacturer{}
		}
		writeJSON(w, http.StatusOK, items)

	case http.MethodPost:
		var m database.Manufacturer
		if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		if m.ManufacturerID == "" {
			id, err := s.db.NextManufacturerID()
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			m.ManufacturerID = id
		}
		if m.CreationDate.IsZero() {
			m.CreationDate = time.Now()
		}
		if err := s.db.CreateManufacturer(&m); err != nil {
			writeDBError(w, err)
			return
		}
		s.hub.Broadcast(Event{Type: "catalog", Entity: "manufacturer", Action: "created", ID: m.ManufacturerID})
		writeJSON(w, http.StatusCreated, m)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleManufacturer handles /api/manufacturers/{business-id}
func (s *Server) handleManufacturer(w http.ResponseWriter, r *http.Request) {
	bid := strings.TrimPrefix(r.URL.Path, "/api/manufacturers/")
	if bid == "" {
		writeError(w, http.StatusBadRequest, "missing manufacturer id")
		return
	}

	m, err := s.db.GetManufacturerByBusinessID(bid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if m == nil {
		writeError(w, http.StatusNotFound, "manufacturer not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, m)

	case http.MethodPut:
		var upd database.Manufacturer
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		upd.ID = m.ID
		upd.ManufacturerID = m.ManufacturerID
		if upd.CreationDate.IsZero() {
			upd.CreationDate = m.CreationDate
		}
		if err := s.db.UpdateManufacturer(&upd); err != nil {
			writeDBError(w, err)
			return
		}
		s.hub.Broadcast(Event{Type: "catalog", Entity: "manufacturer", Action: "updated", ID: m.ManufacturerID})
		writeJSON(w, http.StatusOK, upd)

	case http.MethodDelete:
		if err := s.db.DeleteManufacturer(m.ID); err != nil {
			writeDBError(w, err)
			return
		}
		s.hub.Broadcast(Event{Type: "catalog", Entity: "manufacturer", Action: "deleted", ID: m.ManufacturerID})
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// --- Products ---

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		filter := database.ProductFilter{Name: r.URL.Query().Get("name")}
		if v := r.URL.Query().Get("manufacturer_id"); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid manufacturer_id")
				return
			}
			filter.ManufacturerID = id
		}
		items, err := s.db.ListProducts(filter)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if items == nil {
			items = []database.Product{}
		}
		writeJSON(w, http.StatusOK, items)

	case http.MethodPost:
		var p database.Product
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		if p.ProductID == "" {
			id, err := s.db.NextProductID()
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			p.ProductID = id
		}
		if err := s.db.CreateProduct(&p); err != nil {
			writeDBError(w, err)
			return
		}
		s.hub.Broadcast(Event{Type: "catalog", Entity: "product", Action: "created", ID: p.ProductID})
		writeJSON(w, http.StatusCreated, p)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleProduct(w http.ResponseWriter, r *http.Request) {
	bid := strings.TrimPrefix(r.URL.Path, "/api/products/")
	if bid == "" {
		writeError(w, http.StatusBadRequest, "missing product id")
		return
	}

	p, err := s.db.GetProductByBusinessID(bid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, p)

	case http.MethodPut:
		var upd database.Product
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		upd.ID = p.ID
		upd.ProductID = p.ProductID
		if err := s.db.UpdateProduct(&upd); err != nil {
			writeDBError(w, err)
			return
		}
		s.hub.Broadcast(Event{Type: "catalog", Entity: "product", Action: "updated", ID: p.ProductID})
		writeJSON(w, http.StatusOK, upd)

	case http.MethodDelete:
		if err := s.db.DeleteProduct(p.ID); err != nil {
			writeDBError(w, err)
			return
		}
		s.hub.Broadcast(Event{Type: "catalog", Entity: "product", Action: "deleted", ID: p.ProductID})
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// --- Malware ---

func (s *Server) handleMalwareCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		filter := database.MalwareFilter{
			Name:        r.URL.Query().Get("name"),
			ThreatLevel: r.URL.Query().Get("threat_level"),
			MalwareType: r.URL.Query().Get("malware_type"),
		}
		items, err := s.db.ListMalware(filter)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if items == nil {
			items = []database.Malware{}
		}
		writeJSON(w, http.StatusOK, items)

	case http.MethodPost:
		var m database.Malware
		if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		if m.MalwareID == "" {
			id, err := s.db.NextMalwareID()
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			m.MalwareID = id
		}
		if err := s.db.CreateMalware(&m); err != nil {
			writeDBError(w, err)
			return
		}
		s.hub.Broadcast(Event{Type: "catalog", Entity: "malware", Action: "created", ID: m.MalwareID})
		writeJSON(w, http.StatusCreated, m)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleMalwareEntry(w http.ResponseWriter, r *http.Request) {
	bid := strings.TrimPrefix(r.URL.Path, "/api/malware/")
	if bid == "" {
		writeError(w, http.StatusBadRequest, "missing malware id")
		return
	}

	m, err := s.db.GetMalwareByBusinessID(bid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if m == nil {
		writeError(w, http.StatusNotFound, "malware not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, m)

	case http.MethodPut:
		var upd database.Malware
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		upd.ID = m.ID
		upd.MalwareID = m.MalwareID
		if err := s.db.UpdateMalware(&upd); err != nil {
			writeDBError(w, err)
			return
		}
		s.hub.Broadcast(Event{Type: "catalog", Entity: "malware", Action: "updated", ID: m.MalwareID})
		writeJSON(w, http.StatusOK, upd)

	case http.MethodDelete:
		if err := s.db.DeleteMalware(m.ID); err != nil {
			writeDBError(w, err)
			return
		}
		s.hub.Broadcast(Event{Type: "catalog", Entity: "malware", Action: "deleted", ID: m.MalwareID})
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// --- Signatures ---

func (s *Server) handleSignatures(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		filter := database.SignatureFilter{Name: r.URL.Query().Get("name")}
		if v := r.URL.Query().Get("malware_id"); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid malware_id")
				return
			}
			filter.MalwareID = id
		}
		if v := r.URL.Query().Get("manufacturer_id"); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid manufacturer_id")
				return
			}
			filter.ManufacturerID = id
		}
		items, err := s.db.ListSignatures(filter)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if items == nil {
			items = []database.Signature{}
		}
		writeJSON(w, http.StatusOK, items)

	case http.MethodPost:
		var sig database.Signature
		if err := json.NewDecoder(r.Body).Decode(&sig); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		if sig.SignatureID == "" {
			id, err := s.db.NextSignatureID()
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			sig.SignatureID = id
		}
		if sig.CreationDate.IsZero() {
			sig.CreationDate = time.Now()
		}
		if err := s.db.CreateSignature(&sig); err != nil {
			writeDBError(w, err)
			return
		}
		s.hub.Broadcast(Event{Type: "catalog", Entity: "signature", Action: "created", ID: sig.SignatureID})
		writeJSON(w, http.StatusCreated, sig)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleSignature(w http.ResponseWriter, r *http.Request) {
	bid := strings.TrimPrefix(r.URL.Path, "/api/signatures/")
	if bid == "" {
		writeError(w, http.StatusBadRequest, "missing signature id")
		return
	}

	sig, err := s.db.GetSignatureByBusinessID(bid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if sig == nil {
		writeError(w, http.StatusNotFound, "signature not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, sig)

	case http.MethodPut:
		var upd database.Signature
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		upd.ID = sig.ID
		upd.SignatureID = sig.SignatureID
		if upd.CreationDate.IsZero() {
			upd.CreationDate = sig.CreationDate
		}
		if err := s.db.UpdateSignature(&upd); err != nil {
			writeDBError(w, err)
			return
		}
		s.hub.Broadcast(Event{Type: "catalog", Entity: "signature", Action: "updated", ID: sig.SignatureID})
		writeJSON(w, http.StatusOK, upd)

	case http.MethodDelete:
		if err := s.db.DeleteSignature(sig.ID); err != nil {
			writeDBError(w, err)
			return
		}
		s.hub.Broadcast(Event{Type: "catalog", Entity: "signature", Action: "deleted", ID: sig.SignatureID})
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// --- Support endpoints ---

// handleNextID previews the next business id for an entity without
// reserving it.
func (s *Server) handleNextID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var id string
	var err error
	entity := r.URL.Query().Get("entity")
	switch entity {
	case "manufacturer":
		id, err = s.db.NextManufacturerID()
	case "product":
		id, err = s.db.NextProductID()
	case "malware":
		id, err = s.db.NextMalwareID()
	case "signature":
		id, err = s.db.NextSignatureID()
	default:
		writeError(w, http.StatusBadRequest, "unknown entity")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"entity": entity, "id": id})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	counts, err := s.db.GetCatalogCounts()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

// --- Exports ---

func (s *Server) handleExport(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := s.exporter.Start(kind); err != nil {
			if errors.Is(err, ErrExportBusy) {
				writeError(w, http.StatusConflict, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"kind": kind, "status": "started"})
	}
}
