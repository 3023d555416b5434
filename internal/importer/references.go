package importer

import (
	"io"
	"log/slog"
	"regexp"
	"time"

	"github.com/remcenter/repairdesk-backend/internal/infrastructure/storage"
)

// ImportCounterparties parses a counterparty register. Only the name column
// is mandatory; INN may be blank for individuals.
func ImportCounterparties(r io.Reader, logger *slog.Logger) ([]storage.Counterparty, error) {
	s, err := readSheet(r)
	if err != nil {
		return nil, err
	}

	required, err := s.requireColumns(map[string][]string{
		"name": {"Наименование в программе", "Полное наименование", "Наименование"},
	})
	if err != nil {
		return nil, err
	}
	colINN := s.columnIndex("ИНН", "INN")
	colKPP := s.columnIndex("КПП", "KPP")
	colAddress := s.columnIndex("Адрес")
	colContact := s.columnIndex("Контактное лицо", "Ответственный")
	colPhone := s.columnIndex("Телефон")
	colEmail := s.columnIndex("Email", "E-mail")
	colDescription := s.columnIndex("Описание", "Метки")

	var counterparties []storage.Counterparty
	for i, row := range s.rows {
		if rowEmpty(row) {
			continue
		}

		name := cell(row, required["name"])
		if name == "" {
			logger.Warn("skipping counterparty row without name", "row", i+2)
			continue
		}

		counterparties = append(counterparties, storage.Counterparty{
			Name:          name,
			INN:           cell(row, colINN),
			KPP:           cell(row, colKPP),
			Address:       cell(row, colAddress),
			ContactPerson: cell(row, colContact),
			Phone:         cell(row, colPhone),
			Email:         cell(row, colEmail),
			Description:   cell(row, colDescription),
			IsActive:      true,
		})
	}

	if len(counterparties) == 0 {
		return nil, ErrNoRecords
	}
	return counterparties, nil
}

var ruDateTimeRe = regexp.MustCompile(`(\d{2})\.(\d{2})\.(\d{4})(?:\s+(\d{2}):(\d{2})(?::(\d{2}))?)?`)

// parseDocumentDate normalizes the date cell to RFC 3339. Accepts the
// DD.MM.YYYY [HH:MM[:SS]] format the accounting export produces, plus plain
// RFC 3339. Unparseable cells come back empty.
func parseDocumentDate(raw string) string {
	if raw == "" {
		return ""
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.Format(time.RFC3339)
	}
	m := ruDateTimeRe.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	layout := "02.01.2006"
	value := m[1] + "." + m[2] + "." + m[3]
	if m[4] != "" {
		layout += " 15:04"
		value += " " + m[4] + ":" + m[5]
		if m[6] != "" {
			layout += ":05"
			value += ":" + m[6]
		}
	}
	t, err := time.Parse(layout, value)
	if err != nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

// ImportUpdDocuments parses a UPD register. Document name and counterparty
// are both mandatory columns and mandatory per row.
func ImportUpdDocuments(r io.Reader, logger *slog.Logger) ([]storage.UpdDocument, error) {
	s, err := readSheet(r)
	if err != nil {
		return nil, err
	}

	required, err := s.requireColumns(map[string][]string{
		"document":     {"Документ", "Document"},
		"counterparty": {"Контрагент", "Counterparty"},
	})
	if err != nil {
		return nil, err
	}
	colDate := s.columnIndex("Дата", "Date")

	var documents []storage.UpdDocument
	for i, row := range s.rows {
		if rowEmpty(row) {
			continue
		}

		name := cell(row, required["document"])
		counterparty := cell(row, required["counterparty"])
		if name == "" || counterparty == "" {
			logger.Warn("skipping document row without name or counterparty", "row", i+2)
			continue
		}

		documents = append(documents, storage.UpdDocument{
			DocumentName:     name,
			CounterpartyName: counterparty,
			DocumentDate:     parseDocumentDate(cell(row, colDate)),
			IsActive:         true,
		})
	}

	if len(documents) == 0 {
		return nil, ErrNoRecords
	}
	return documents, nil
}
