package importer

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"woocrm/internal/features/contact"
	"woocrm/pkg/utils"
)

// RowError reports one rejected spreadsheet row.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult summarizes one workbook import.
type ImportResult struct {
	TotalRows int        `json:"total_rows"`
	Created   int        `json:"created"`
	Updated   int        `json:"updated"`
	Skipped   int        `json:"skipped"`
	Errors    []RowError `json:"errors,omitempty"`
}

// headerFields maps normalized column headers to contact fields. Headers
// are slugified first, so "First Name", "first_name" and "Nome" all land on
// the same field.
var headerFields = map[string]string{
	"first-name":  "first_name",
	"nome":        "first_name",
	"last-name":   "last_name",
	"cognome":     "last_name",
	"email":       "email",
	"e-mail":      "email",
	"phone":       "phone",
	"telefono":    "phone",
	"address":     "address",
	"indirizzo":   "address",
	"city":        "city",
	"citta":       "city",
	"postal-code": "postal_code",
	"cap":         "postal_code",
	"country":     "country",
	"paese":       "country",
	"language":    "language",
	"lingua":      "language",
	"status":      "status",
	"stato":       "status",
	"notes":       "notes",
	"note":        "notes",
}

type ImportService interface {
	ImportContacts(ctx context.Context, file io.Reader) (*ImportResult, error)
}

type ImportServiceImpl struct {
	contacts contact.ContactRepository
	logger   *zap.Logger
}

func NewImportService(contacts contact.ContactRepository, logger *zap.Logger) ImportService {
	return &ImportServiceImpl{
		contacts: contacts,
		logger:   logger,
	}
}

// ImportContacts reads the first sheet of an XLSX workbook and upserts one
// contact per row, matching existing contacts by email.
func (s *ImportServiceImpl) ImportContacts(ctx context.Context, file io.Reader) (*ImportResult, error) {
	workbook, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	fields := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		fields[i] = headerFields[utils.Slugify(header)]
	}

	result := &ImportResult{TotalRows: len(rows) - 1}
	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after the header

		values := make(map[string]string)
		for j, cell := range row {
			if j < len(fields) && fields[j] != "" {
				values[fields[j]] = strings.TrimSpace(cell)
			}
		}

		email := strings.ToLower(values["email"])
		if email == "" {
			result.Skipped++
			result.Errors = append(result.Errors, RowError{Row: rowNum, Message: "missing email"})
			continue
		}

		created, err := s.upsertContact(ctx, email, values)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, RowError{Row: rowNum, Message: err.Error()})
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	s.logger.Info("contact import finished",
		zap.Int("total", result.TotalRows),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

func (s *ImportServiceImpl) upsertContact(ctx context.Context, email string, values map[string]string) (bool, error) {
	existing, err := s.contacts.FindByEmail(ctx, email)
	if err != nil && err != mongo.ErrNoDocuments {
		return false, err
	}

	if existing != nil {
		updates := make(map[string]interface{})
		for field, value := range values {
			if field != "email" && value != "" {
				updates[field] = value
			}
		}
		if len(updates) == 0 {
			return false, nil
		}
		return false, s.contacts.Update(ctx, existing.ID.Hex(), updates)
	}

	status := values["status"]
	if status == "" {
		status = "lead"
	}
	doc := &contact.Contact{
		FirstName:  values["first_name"],
		LastName:   values["last_name"],
		Email:      email,
		Phone:      values["phone"],
		Address:    values["address"],
		City:       values["city"],
		PostalCode: values["postal_code"],
		Country:    strings.ToUpper(values["country"]),
		Language:   strings.ToLower(values["language"]),
		Status:     status,
		Source:     "import",
		Notes:      values["notes"],
	}
	return true, s.contacts.Create(ctx, doc)
}
