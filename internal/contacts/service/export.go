package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"fish_and_follow_backend/internal/contacts/domain"
	"fish_and_follow_backend/internal/contacts/transport"
	"fish_and_follow_backend/platform/apperr"

	"github.com/google/uuid"
)

// exportColumns mirrors the import dialog so an export can be re-imported.
var exportColumns = []struct {
	header string
	key    string
}{
	{"First Name", domain.FieldFirstName},
	{"Last Name", domain.FieldLastName},
	{"Email", domain.FieldEmail},
	{"Phone", domain.FieldPhoneNumber},
	{"Campus", domain.FieldCampus},
	{"Major", domain.FieldMajor},
	{"Year", domain.FieldYear},
	{"Gender", domain.FieldGender},
	{"Interested", domain.FieldIsInterested},
	{"Follow-up Status Description", domain.FieldFollowUpStatusDescription},
	{"Notes", domain.FieldNotes},
}

// ExportCSV renders every contact matching the search parameters as CSV,
// up to the configured row cap. The limit parameter is ignored.
func (s *Service) ExportCSV(ctx context.Context, organizationID uuid.UUID, req transport.SearchRequest) ([]byte, int, error) {
	params := parseSearchRequest(organizationID, req)
	params.Fields = domain.FieldKeys()
	params.Limit = s.exportMaxRows

	records, err := s.repo.Search(ctx, params)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "Failed to export contacts", err).WithOp("contacts.ExportCSV")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, len(exportColumns))
	for i, col := range exportColumns {
		header[i] = col.header
	}
	if err := w.Write(header); err != nil {
		return nil, 0, err
	}

	row := make([]string, len(exportColumns))
	for _, record := range records {
		for i, col := range exportColumns {
			row[i] = formatCell(record[col.key])
		}
		if err := w.Write(row); err != nil {
			return nil, 0, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, 0, err
	}

	s.log.WithContext(ctx).Info("contact export", "rows", len(records))
	return buf.Bytes(), len(records), nil
}

func formatCell(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}
