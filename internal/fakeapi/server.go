// Package fakeapi serves an in-memory copy of the catalog REST API. Only tests import it.
package fakeapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/Skotchmaster/storefront/internal/models"
)

// Password is accepted for every username.
const Password = "m38rmF$"

type Server struct {
	*httptest.Server

	mu       sync.Mutex
	products []models.Product
	nextID   int
	requests map[string]int
}

func SampleProducts() []models.Product {
	return []models.Product{
		{ID: 1, Title: "Fjallraven - Foldsack No. 1 Backpack", Price: 109.95, Description: "Your perfect pack", Category: "men's clothing", Image: "https://img.example/1.jpg"},
		{ID: 2, Title: "Mens Casual Premium Slim Fit T-Shirts", Price: 22.3, Description: "Slim-fitting style", Category: "men's clothing", Image: "https://img.example/2.jpg"},
		{ID: 5, Title: "John Hardy Women's Legends Naga Bracelet", Price: 695, Description: "From our Legends Collection", Category: "jewelery", Image: "https://img.example/5.jpg"},
		{ID: 9, Title: "WD 2TB Elements Portable External Hard Drive", Price: 64, Description: "USB 3.0", Category: "electronics", Image: "https://img.example/9.jpg"},
	}
}

// New starts a server seeded with products. cleanup registers its Close, e.g. t.Cleanup.
func New(cleanup func(func()), products []models.Product) *Server {
	s := &Server{requests: make(map[string]int)}
	for _, p := range products {
		s.products = append(s.products, p)
		if p.ID >= s.nextID {
			s.nextID = p.ID + 1
		}
	}
	if s.nextID == 0 {
		s.nextID = 1
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", s.login)
	mux.HandleFunc("GET /products", s.list)
	mux.HandleFunc("POST /products", s.create)
	mux.HandleFunc("GET /products/{id}", s.get)
	mux.HandleFunc("PUT /products/{id}", s.update)
	mux.HandleFunc("DELETE /products/{id}", s.delete)

	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests[r.Method+" "+r.URL.Path]++
		s.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	cleanup(s.Close)
	return s
}

// Requests returns how many times "METHOD /path" was called.
func (s *Server) Requests(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[key]
}

func (s *Server) Products() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		http.Error(w, "username and password are not provided in JSON format", http.StatusBadRequest)
		return
	}
	if req.Password != Password {
		http.Error(w, "username or password is incorrect", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"token": "token-" + req.Username})
}

func (s *Server) list(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Products())
}

func (s *Server) index(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return 0, false
	}
	for i, p := range s.products {
		if p.ID == id {
			return i, true
		}
	}
	return 0, false
}

// get mimics the public API: an unknown id is a 200 with an empty body.
func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	i, ok := s.index(r)
	var p models.Product
	if ok {
		p = s.products[i]
	}
	s.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var p models.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	p.ID = s.nextID
	s.nextID++
	s.products = append(s.products, p)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	var p models.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	i, ok := s.index(r)
	if ok {
		p.ID = s.products[i].ID
		s.products[i] = p
	}
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	i, ok := s.index(r)
	var p models.Product
	if ok {
		p = s.products[i]
		s.products = append(s.products[:i], s.products[i+1:]...)
	}
	s.mu.Unlock()

	if !ok {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("null"))
		return
	}
	writeJSON(w, http.StatusOK, p)
}
