package armorvis

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ClassCatalog is an ordered, read only mapping of class index to class name
type ClassCatalog struct {
	names []string
}

// NewClassCatalog returns a catalog of the given class names.  The names are
// copied so later changes to the slice do not affect the catalog.
func NewClassCatalog(names ...string) ClassCatalog {
	c := ClassCatalog{names: make([]string, len(names))}
	copy(c.names, names)
	return c
}

// DefaultClassCatalog returns the armor classes the model is trained on
func DefaultClassCatalog() ClassCatalog {
	return NewClassCatalog("G", "1", "2", "3", "4", "5", "O", "Bs", "Bb")
}

// LoadClassCatalog reads the class names used to train the Model from the
// given text file.  It should contain one name per line.
func LoadClassCatalog(file string) (ClassCatalog, error) {

	f, err := os.Open(file)

	if err != nil {
		return ClassCatalog{}, fmt.Errorf("error opening file: %w", err)
	}

	defer f.Close()

	scanner := bufio.NewScanner(f)

	var names []string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			continue
		}

		names = append(names, line)
	}

	if err := scanner.Err(); err != nil {
		return ClassCatalog{}, fmt.Errorf("error reading file: %w", err)
	}

	if len(names) == 0 {
		return ClassCatalog{}, fmt.Errorf("no class names found in %s", file)
	}

	return ClassCatalog{names: names}, nil
}

// Len returns the number of classes in the catalog
func (c ClassCatalog) Len() int {
	return len(c.names)
}

// Name returns the class name for the given label.  A label outside of the
// catalog is returned as its number.
func (c ClassCatalog) Name(label int) string {
	if label >= 0 && label < len(c.names) {
		return c.names[label]
	}

	return strconv.Itoa(label)
}
