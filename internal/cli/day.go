package cli

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/todo/internal/model"
)

const dayHelp = "today, yesterday, tomorrow or a date in format YYYY-MM-DD"

// parseDay resolves a DAY argument relative to now.
func parseDay(value string, now time.Time) (time.Time, error) {
	today := model.NormalizeDate(now)
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	}

	day, err := model.ParseDate(strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, usageErrorf("%q is not a correct date", value)
	}
	return day, nil
}

// tristate reads a --flag/--no-flag pair. It returns nil when neither was
// given and rejects both at once.
func tristate(cmd *cobra.Command, on, off string) (*bool, error) {
	flags := cmd.Flags()
	setOn, setOff := flags.Changed(on), flags.Changed(off)

	switch {
	case setOn && setOff:
		return nil, usageErrorf("--%s and --%s are mutually exclusive", on, off)
	case setOn:
		v, err := flags.GetBool(on)
		if err != nil {
			return nil, err
		}
		return &v, nil
	case setOff:
		v, err := flags.GetBool(off)
		if err != nil {
			return nil, err
		}
		v = !v
		return &v, nil
	}
	return nil, nil
}

// dayAndRank parses the DAY RANK positional pair used by update and delete.
func dayAndRank(args []string, now time.Time) (time.Time, int, error) {
	day, err := parseDay(args[0], now)
	if err != nil {
		return time.Time{}, 0, err
	}

	taskRank, err := strconv.Atoi(args[1])
	if err != nil {
		return time.Time{}, 0, usageErrorf("%q is not a valid integer", args[1])
	}
	return day, taskRank, nil
}
