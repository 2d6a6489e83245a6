package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/blackwell-systems/cartlift/internal/analyzer"
	"github.com/blackwell-systems/cartlift/internal/metrics"
)

const welcomeMessage = "Welcome to the E-commerce Recommendation API!"

type welcomeResponse struct {
	Message string `json:"message"`
}

type recommendResponse struct {
	Product         string                    `json:"product"`
	Recommendations []analyzer.Recommendation `json:"recommendations"`
}

type healthResponse struct {
	Status string `json:"status"`
	Rules  int    `json:"rules"`
	RunID  string `json:"run_id,omitempty"`
}

type recommendParams struct {
	Product string  `validate:"required"`
	TopN    int     `validate:"gte=1,lte=1000"`
	MinLift float64 `validate:"gte=0"`
}

func (s *Server) handleWelcome(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, welcomeResponse{Message: welcomeMessage})
}

// handleRecommend handles GET /recommend/{product_name}.
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	params, err := s.parseRecommendParams(r)
	if err != nil {
		respondDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	recs, err := s.model.Table().Recommend(params.Product, analyzer.QueryOptions{
		TopN:    params.TopN,
		MinLift: params.MinLift,
	})
	if err != nil {
		if errors.Is(err, analyzer.ErrInvalidArgument) {
			respondDetail(w, http.StatusBadRequest, err.Error())
			return
		}
		respondDetail(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	metrics.RecordRecommendation(len(recs))
	if len(recs) == 0 {
		respondDetail(w, http.StatusNotFound, fmt.Sprintf("No recommendations found for product: '%s'", params.Product))
		return
	}

	respondJSON(w, http.StatusOK, recommendResponse{
		Product:         params.Product,
		Recommendations: recs,
	})
}

func (s *Server) parseRecommendParams(r *http.Request) (recommendParams, error) {
	p := recommendParams{
		Product: productParam(r),
		TopN:    s.cfg.TopN,
		MinLift: s.cfg.MinLift,
	}

	q := r.URL.Query()
	if v := q.Get("top_n"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, fmt.Errorf("top_n must be an integer, got %q", v)
		}
		p.TopN = n
	}
	if v := q.Get("min_lift"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return p, fmt.Errorf("min_lift must be a number, got %q", v)
		}
		p.MinLift = f
	}

	if err := s.validate.Struct(p); err != nil {
		return p, paramError(err)
	}
	return p, nil
}

// productParam returns the decoded product name, or "" for a blank one.
func productParam(r *http.Request) string {
	name := chi.URLParam(r, "product_name")
	if r.URL.RawPath != "" {
		if decoded, err := url.PathUnescape(name); err == nil {
			name = decoded
		}
	}
	if strings.TrimSpace(name) == "" {
		return ""
	}
	return name
}

func paramError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	switch fe.Field() {
	case "Product":
		return errors.New("product name cannot be empty")
	case "TopN":
		return fmt.Errorf("top_n must be between 1 and 1000, got %v", fe.Value())
	case "MinLift":
		return fmt.Errorf("min_lift must be non-negative, got %v", fe.Value())
	}
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		Rules:  s.model.Table().Len(),
		RunID:  s.model.RunID(),
	})
}
