package models

import "fmt"

// SeasonString formats an NBA season by its ending year the way the
// stats API expects it: endYear 2024 becomes "2023-24".
func SeasonString(endYear int) string {
	return fmt.Sprintf("%d-%02d", endYear-1, endYear%100)
}
