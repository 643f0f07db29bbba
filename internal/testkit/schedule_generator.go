package testkit

import (
	"fmt"
	"math/rand"

	"schedex/domain/grid"
)

// ScheduleGeneratorConfig configures the synthetic schedule generator.
type ScheduleGeneratorConfig struct {
	SheetCount       int     `json:"sheet_count"`
	ProductsPerSheet int     `json:"products_per_sheet"`
	Grouped          bool    `json:"grouped"`
	DuplicateRate    float64 `json:"duplicate_rate"`
	Seed             int64   `json:"seed"`
}

// DefaultScheduleConfig returns sensible defaults for schedule generation.
func DefaultScheduleConfig() ScheduleGeneratorConfig {
	return ScheduleGeneratorConfig{
		SheetCount:       2,
		ProductsPerSheet: 8,
		Grouped:          false,
		DuplicateRate:    0.1,
		Seed:             42,
	}
}

// ScheduleGenerator generates realistic schedule workbooks for tests.
// Output is deterministic for a given config.
type ScheduleGenerator struct {
	config ScheduleGeneratorConfig
	rng    *rand.Rand
}

// NewScheduleGenerator creates a new schedule generator.
func NewScheduleGenerator(config ScheduleGeneratorConfig) *ScheduleGenerator {
	return &ScheduleGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

var generatorSections = []struct {
	name   string
	prefix string
}{
	{"FLOORING", "FCA"},
	{"FURNITURE", "F"},
	{"LIGHTING", "L"},
	{"TILES", "FTI"},
	{"JOINERY", "J"},
}

var generatorNames = []string{
	"ICONIC", "BLINK", "HALO", "ATLAS", "VERVE", "NIMBUS", "ORBIT", "PRISM",
}

var generatorBrands = []string{
	"EGE", "Signorino", "Eaglestone", "Thomas Lentini", "Artedomus", "Living Edge",
}

var generatorColours = []string{
	"SILVER SHADOW", "BLANCO", "CHARCOAL", "NATURAL OAK", "MIDNIGHT", "BONE",
}

var generatorLocations = []string{
	"Main Lobby", "Guest Room", "Corridor Level 2", "Reception", "Lounge Bar",
}

// Generate builds a workbook of schedule sheets and returns it together
// with the doc codes a correct parse should keep, in extraction order.
// Duplicate rows re-emit an earlier code and must collapse away.
func (g *ScheduleGenerator) Generate() (*grid.Workbook, []string) {
	wb := grid.NewWorkbook()
	var expected []string

	for i := 0; i < g.config.SheetCount; i++ {
		section := generatorSections[i%len(generatorSections)]
		sheet := wb.AddSheet(fmt.Sprintf("Sheet%d", i+1))
		codes := g.fillSheet(sheet, section.name, section.prefix)
		expected = append(expected, codes...)
	}
	return wb, expected
}

// fillSheet writes one schedule sheet and returns its unique doc codes
// in row order.
func (g *ScheduleGenerator) fillSheet(s *grid.Sheet, section, prefix string) []string {
	// Title clutter above the header exercises header detection.
	s.SetCell(1, 1, grid.TextCell("PROJECT FINISHES SCHEDULE"))
	headerRow := 3
	headers := []string{"CODE", "ITEM & LOCATION", "PRODUCT DETAILS", "MANUFACTURER", "QTY", "COST PER UNIT"}
	for c, h := range headers {
		s.SetCell(headerRow, c+1, grid.TextCell(h))
	}

	row := headerRow + 1
	s.SetCell(row, 1, grid.TextCell(section))
	row++

	var codes []string
	for n := 1; n <= g.config.ProductsPerSheet; n++ {
		code := fmt.Sprintf("%s-%02d", prefix, n)
		codes = append(codes, code)
		if g.config.Grouped {
			row = g.writeGroupedProduct(s, row, code)
		} else {
			row = g.writeSingleRowProduct(s, row, code)
		}

		if g.rng.Float64() < g.config.DuplicateRate && len(codes) > 1 {
			dup := codes[g.rng.Intn(len(codes)-1)]
			if g.config.Grouped {
				row = g.writeGroupedProduct(s, row, dup)
			} else {
				row = g.writeSingleRowProduct(s, row, dup)
			}
		}
	}
	return codes
}

func (g *ScheduleGenerator) writeSingleRowProduct(s *grid.Sheet, row int, code string) int {
	name := generatorNames[g.rng.Intn(len(generatorNames))]
	colour := generatorColours[g.rng.Intn(len(generatorColours))]
	width := (g.rng.Intn(30) + 3) * 100

	s.SetCell(row, 1, grid.TextCell(code))
	s.SetCell(row, 2, grid.TextCell(generatorLocations[g.rng.Intn(len(generatorLocations))]))
	s.SetCell(row, 3, grid.TextCell(fmt.Sprintf("NAME: %s\nCOLOUR: %s\nWIDTH: %dMM", name, colour, width)))
	s.SetCell(row, 4, grid.TextCell(generatorBrands[g.rng.Intn(len(generatorBrands))]))
	s.SetCell(row, 5, grid.NumberCell(float64(g.rng.Intn(20) + 1)))
	s.SetCell(row, 6, grid.NumberCell(float64(g.rng.Intn(900)+50) + 0.5))
	return row + 1
}

func (g *ScheduleGenerator) writeGroupedProduct(s *grid.Sheet, row int, code string) int {
	name := generatorNames[g.rng.Intn(len(generatorNames))]
	brand := generatorBrands[g.rng.Intn(len(generatorBrands))]

	s.SetCell(row, 1, grid.TextCell(code))
	s.SetCell(row, 2, grid.TextCell(generatorLocations[g.rng.Intn(len(generatorLocations))]))
	s.SetCell(row, 4, grid.TextCell("Item:"))
	s.SetCell(row, 5, grid.TextCell(name))
	row++
	details := [][2]string{
		{"Maker:", brand},
		{"Colour:", generatorColours[g.rng.Intn(len(generatorColours))]},
		{"Size:", fmt.Sprintf("%dW x %dD MM", (g.rng.Intn(10)+4)*100, (g.rng.Intn(6)+3)*100)},
		{"Qty:", fmt.Sprintf("%d", g.rng.Intn(10)+1)},
	}
	for _, d := range details {
		s.SetCell(row, 4, grid.TextCell(d[0]))
		s.SetCell(row, 5, grid.TextCell(d[1]))
		row++
	}
	return row + 1
}
