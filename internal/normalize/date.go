package normalize

import "time"

const dateLayout = "2006-01-02"

// isValidDate reports whether s parses as a strict YYYY-MM-DD date.
func isValidDate(s string) bool {
	if len(s) != len(dateLayout) {
		return false
	}
	_, err := time.Parse(dateLayout, s)
	return err == nil
}
