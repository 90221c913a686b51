package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/asticode/go-astikit"
	"github.com/pkg/profile"

	xml2json "github.com/basgys/goxml2json"

	"github.com/go-tsi/section"
)

var (
	cpuProfiling    = flag.Bool("cp", false, "if yes, cpu profiling is enabled")
	memoryProfiling = flag.Bool("mp", false, "if yes, memory profiling is enabled")
	inputPath       = flag.String("i", "", "the input path (.xml, .json or raw binary section file)")
	format          = flag.String("f", "", "force the input format (binary|xml|json), default: guessed from the extension")
	output          = flag.String("o", "", "the output format (json), default: a human-readable summary")
	ignoreCRC       = flag.Bool("ignore-crc", false, "skip CRC-32 validation on binary load")
	legacyJSON      = flag.Bool("legacy-json", false, "convert an XML input straight to generic JSON via a third-party mapper, bypassing the section model entirely")
	tableTypes      = astikit.NewFlagStrings()
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage of %s:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Var(tableTypes, "t", "the table types whitelist (all, pat, cat, pmt, nit, bat, sdt, tdt, tot, eit)")
	flag.Parse()

	if *cpuProfiling {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	} else if *memoryProfiling {
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	}

	if len(*inputPath) == 0 {
		log.Fatal("use -i to indicate an input path")
	}

	if *legacyJSON {
		if err := printLegacyJSON(*inputPath); err != nil {
			log.Fatal(fmt.Errorf("secfile-probe: legacy json conversion failed: %w", err))
		}
		return
	}

	sf, err := loadSectionFile(*inputPath)
	if err != nil {
		log.Fatal(fmt.Errorf("secfile-probe: loading %s failed: %w", *inputPath, err))
	}

	tables := filterTables(sf.Tables(), tableTypes.Map)

	switch *output {
	case "json":
		printJSON(tables, sf.OrphanSections())
	default:
		printSummary(tables, sf.OrphanSections())
	}
}

// loadSectionFile guesses the input representation from -f, falling back
// to the file extension, then parses it into a SectionFile.
func loadSectionFile(path string) (*section.SectionFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	duckOpts := []section.DuckOpt{}
	if *ignoreCRC {
		duckOpts = append(duckOpts, section.DuckOptCRCPolicy(section.CRCIgnore))
	}
	sf := section.NewSectionFile(section.NewDuckContext(duckOpts...))

	switch inputFormat(path) {
	case "xml":
		err = sf.LoadXML(f)
	case "json":
		err = sf.LoadJSON(f)
	default:
		err = sf.LoadBinary(f)
	}
	if err != nil {
		return nil, err
	}
	return sf, nil
}

func inputFormat(path string) string {
	if *format != "" {
		return *format
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return "xml"
	case ".json":
		return "json"
	default:
		return "binary"
	}
}

func filterTables(tables []*section.BinaryTable, whitelist map[string]bool) []*section.BinaryTable {
	if len(whitelist) == 0 {
		return tables
	}
	if _, ok := whitelist["all"]; ok {
		return tables
	}

	var out []*section.BinaryTable
	for _, t := range tables {
		if whitelist[tableTypeName(t.TableID())] {
			out = append(out, t)
		}
	}
	return out
}

func tableTypeName(id uint8) string {
	switch {
	case id == 0x00:
		return "pat"
	case id == 0x01:
		return "cat"
	case id == 0x02:
		return "pmt"
	case id == 0x40 || id == 0x41:
		return "nit"
	case id == 0x42 || id == 0x46:
		return "sdt"
	case id == 0x4a:
		return "bat"
	case id == 0x70:
		return "tdt"
	case id == 0x73:
		return "tot"
	case id >= 0x4e && id <= 0x6f:
		return "eit"
	default:
		return "unknown"
	}
}

func printSummary(tables []*section.BinaryTable, orphans []*section.Section) {
	fmt.Printf("Tables: %d\n", len(tables))
	for _, t := range tables {
		fmt.Printf("* %s table_id=%#x table_id_ext=%#x version=%d sections=%d complete=%v\n",
			strings.ToUpper(tableTypeName(t.TableID())), t.TableID(), t.TableIDExtension(), t.Version(), t.SectionCount(), t.IsComplete())
	}
	if len(orphans) > 0 {
		fmt.Printf("Orphan sections: %d\n", len(orphans))
		for _, s := range orphans {
			fmt.Printf("* table_id=%#x section_number=%d\n", s.TableID, s.SectionNumber)
		}
	}
}

func printJSON(tables []*section.BinaryTable, orphans []*section.Section) {
	type summary struct {
		Type             string `json:"type"`
		TableID          uint8  `json:"table_id"`
		TableIDExtension uint16 `json:"table_id_ext"`
		Version          uint8  `json:"version"`
		Sections         int    `json:"sections"`
		Complete         bool   `json:"complete"`
	}

	out := struct {
		Tables         []summary `json:"tables"`
		OrphanSections int       `json:"orphan_sections"`
	}{
		OrphanSections: len(orphans),
	}
	for _, t := range tables {
		out.Tables = append(out.Tables, summary{
			Type:             tableTypeName(t.TableID()),
			TableID:          t.TableID(),
			TableIDExtension: t.TableIDExtension(),
			Version:          t.Version(),
			Sections:         t.SectionCount(),
			Complete:         t.IsComplete(),
		})
	}

	e := json.NewEncoder(os.Stdout)
	e.SetIndent("", "  ")
	if err := e.Encode(out); err != nil {
		log.Fatal(fmt.Errorf("secfile-probe: json encoding to stdout failed: %w", err))
	}
}

// printLegacyJSON bypasses the section model entirely: a convenience
// export of an arbitrary input XML document into whatever generic JSON
// shape a downstream tool expects, independent of the #name/#attributes/
// #nodes round-trip shape SaveJSON/LoadJSON use.
func printLegacyJSON(path string) error {
	if strings.ToLower(filepath.Ext(path)) != ".xml" {
		return errors.New("-legacy-json requires an .xml input")
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	buf, err := xml2json.Convert(f)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(buf.Bytes())
	return err
}
