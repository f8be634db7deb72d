package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"fleet-client/internal/api/dto"
	"fleet-client/internal/domain"
	"fleet-client/internal/store"

	"github.com/shopspring/decimal"
)

const maxImportBytes = 10 << 20

var customerColumns = []string{
	"id", "name", "email", "phone", "address", "gstin",
	"creditLimit", "paymentTerms", "status", "category",
}

type CustomerHandler struct {
	Customers *store.CustomerStore
}

// Export handles GET /customers/export and returns CSV.
// Optional ?status= and ?category= narrow the export.
func (h *CustomerHandler) Export(w http.ResponseWriter, r *http.Request) {
	status := domain.CustomerStatus(r.URL.Query().Get("status"))
	category := r.URL.Query().Get("category")
	recs := h.Customers.Filter(func(c domain.Customer) bool {
		return (status == "" || c.Status == status) && (category == "" || c.Category == category)
	})

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="customers.csv"`)

	cw := csv.NewWriter(w)
	_ = cw.Write(customerColumns)
	for _, c := range recs {
		_ = cw.Write([]string{
			c.ID, c.Name, c.Email, c.Phone, c.Address, c.GSTIN,
			c.CreditLimit.String(), c.PaymentTerms, string(c.Status), c.Category,
		})
	}
	cw.Flush()
}

// Import handles POST /customers/import with a CSV in form field "file".
// Rows are upserted by id; bad rows are counted, not fatal.
func (h *CustomerHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	f, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "file is required")
		return
	}
	defer f.Close()

	summary, err := h.importCSV(f)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, summary)
}

func (h *CustomerHandler) importCSV(src io.Reader) (dto.ImportSummary, error) {
	cr := csv.NewReader(src)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return dto.ImportSummary{}, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	if _, ok := col["id"]; !ok {
		return dto.ImportSummary{}, errors.New("missing id column")
	}

	var summary dto.ImportSummary
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		c, err := customerFromRow(row, col)
		if err == nil {
			err = h.Customers.Put(c)
		}
		if err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		summary.Imported++
	}
	return summary, nil
}

func customerFromRow(row []string, col map[string]int) (domain.Customer, error) {
	get := func(name string) string {
		if i, ok := col[name]; ok && i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	c := domain.Customer{
		ID:           get("id"),
		Name:         get("name"),
		Email:        get("email"),
		Phone:        get("phone"),
		Address:      get("address"),
		GSTIN:        get("gstin"),
		PaymentTerms: get("paymentTerms"),
		Status:       domain.CustomerStatus(strings.ToLower(get("status"))),
		Category:     get("category"),
	}
	if c.Status == "" {
		c.Status = domain.CustomerActive
	}
	if v := get("creditLimit"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return domain.Customer{}, fmt.Errorf("credit limit %q: %w", v, err)
		}
		c.CreditLimit = d
	}
	return c, nil
}
