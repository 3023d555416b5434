package importer

import (
	"io"
	"log/slog"

	"github.com/remcenter/repairdesk-backend/internal/domain/catalog"
)

// ImportMotors parses a motor price list. Name, power and rpm are mandatory
// per row; rows missing any of them are skipped.
func ImportMotors(r io.Reader, logger *slog.Logger) ([]catalog.Motor, error) {
	s, err := readSheet(r)
	if err != nil {
		return nil, err
	}

	required, err := s.requireColumns(map[string][]string{
		"name": {"Двигатель_полное_название", "Название", "Наименование"},
	})
	if err != nil {
		return nil, err
	}
	colPower := s.columnIndex("Мощность, кВт", "Мощность")
	colRPM := s.columnIndex("Обороты/об/мин", "Обороты", "RPM")
	colPrice := s.columnIndex("Цена за ед", "Цена", "Price")

	var motors []catalog.Motor
	for i, row := range s.rows {
		if rowEmpty(row) {
			continue
		}
		rowNum := i + 2

		name := cell(row, required["name"])
		power, errPower := parseMoney(cell(row, colPower))
		rpm, errRPM := parseMoney(cell(row, colRPM))
		if name == "" || errPower != nil || errRPM != nil {
			logger.Warn("skipping motor row without name, power or rpm", "row", rowNum)
			continue
		}

		price, err := parseOptionalMoney(cell(row, colPrice))
		if err != nil {
			logger.Warn("skipping motor row with bad price cell", "row", rowNum, "error", err)
			continue
		}

		motors = append(motors, catalog.Motor{
			Name:         name,
			PowerKW:      power,
			RPM:          int(rpm),
			PricePerUnit: price,
			IsActive:     true,
		})
	}

	if len(motors) == 0 {
		return nil, ErrNoRecords
	}
	return motors, nil
}

// ImportBearings parses a bearing price list keyed by designation.
func ImportBearings(r io.Reader, logger *slog.Logger) ([]catalog.Bearing, error) {
	s, err := readSheet(r)
	if err != nil {
		return nil, err
	}

	required, err := s.requireColumns(map[string][]string{
		"designation": {"Обозначение", "Подшипник", "Наименование"},
	})
	if err != nil {
		return nil, err
	}
	colPrice := s.columnIndex("Цена за ед", "Цена", "Price")

	var bearings []catalog.Bearing
	for i, row := range s.rows {
		if rowEmpty(row) {
			continue
		}
		rowNum := i + 2

		designation := cell(row, required["designation"])
		if designation == "" {
			logger.Warn("skipping bearing row without designation", "row", rowNum)
			continue
		}

		price, err := parseOptionalMoney(cell(row, colPrice))
		if err != nil {
			logger.Warn("skipping bearing row with bad price cell", "row", rowNum, "error", err)
			continue
		}

		bearings = append(bearings, catalog.Bearing{
			Designation:  designation,
			PricePerUnit: price,
			IsActive:     true,
		})
	}

	if len(bearings) == 0 {
		return nil, ErrNoRecords
	}
	return bearings, nil
}

// ImportWires parses a winding wire price list. Brand and cross-section
// together form the natural key, so both are mandatory.
func ImportWires(r io.Reader, logger *slog.Logger) ([]catalog.Wire, error) {
	s, err := readSheet(r)
	if err != nil {
		return nil, err
	}

	required, err := s.requireColumns(map[string][]string{
		"brand":         {"Марка", "Наименование"},
		"cross_section": {"Сечение, мм²", "Сечение"},
	})
	if err != nil {
		return nil, err
	}
	colPrice := s.columnIndex("Цена за метр", "Цена", "Price")

	var wires []catalog.Wire
	for i, row := range s.rows {
		if rowEmpty(row) {
			continue
		}
		rowNum := i + 2

		brand := cell(row, required["brand"])
		crossSection, errSection := parseMoney(cell(row, required["cross_section"]))
		if brand == "" || errSection != nil {
			logger.Warn("skipping wire row without brand or cross-section", "row", rowNum)
			continue
		}

		price, err := parseOptionalMoney(cell(row, colPrice))
		if err != nil {
			logger.Warn("skipping wire row with bad price cell", "row", rowNum, "error", err)
			continue
		}

		wires = append(wires, catalog.Wire{
			Brand:         brand,
			CrossSection:  crossSection,
			PricePerMeter: price,
			IsActive:      true,
		})
	}

	if len(wires) == 0 {
		return nil, ErrNoRecords
	}
	return wires, nil
}
