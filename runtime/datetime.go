package runtime

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/elaraai/east/types"
	"github.com/elaraai/east/values"
)

// DateTimeComponentsType is the East type returned by DateTimeComponents
// and accepted by DateTimeFromComponents: a naive UTC calendar breakdown
// to millisecond resolution.
var DateTimeComponentsType types.Type = types.NewStruct(
	types.Field{Name: "year", Type: types.Integer},
	types.Field{Name: "month", Type: types.Integer},
	types.Field{Name: "day", Type: types.Integer},
	types.Field{Name: "hour", Type: types.Integer},
	types.Field{Name: "minute", Type: types.Integer},
	types.Field{Name: "second", Type: types.Integer},
	types.Field{Name: "millisecond", Type: types.Integer},
)

func init() {
	register(Builtin{Name: "DateTimeComponents", Check: checkUnaryDateTime(DateTimeComponentsType), Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		t := epochMillisToTime(int64(args[0].(values.DateTime)))
		return values.NewStruct(DateTimeComponentsType.(*types.Struct),
			values.Integer(t.Year()),
			values.Integer(int(t.Month())),
			values.Integer(t.Day()),
			values.Integer(t.Hour()),
			values.Integer(t.Minute()),
			values.Integer(t.Second()),
			values.Integer(t.Nanosecond()/1e6),
		), nil
	}})
	register(Builtin{Name: "DateTimeFromComponents", Check: checkDateTimeFromComponents, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		s := args[0].(*values.Struct)
		year, _ := s.Field("year")
		month, _ := s.Field("month")
		day, _ := s.Field("day")
		hour, _ := s.Field("hour")
		minute, _ := s.Field("minute")
		second, _ := s.Field("second")
		ms, _ := s.Field("millisecond")
		t := time.Date(
			int(year.(values.Integer)), time.Month(int(month.(values.Integer))), int(day.(values.Integer)),
			int(hour.(values.Integer)), int(minute.(values.Integer)), int(second.(values.Integer)),
			int(ms.(values.Integer))*1e6, time.UTC,
		)
		return values.DateTime(timeToEpochMillis(t)), nil
	}})
	register(Builtin{Name: "DateTimeFromEpochSeconds", Check: checkIntegerToDateTime, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		return values.DateTime(int64(args[0].(values.Integer)) * 1000), nil
	}})
	register(Builtin{Name: "DateTimeToEpochSeconds", Check: checkUnaryDateTime(types.Integer), Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		return values.Integer(int64(args[0].(values.DateTime)) / 1000), nil
	}})
	register(Builtin{Name: "DateTimeFromEpochMilliseconds", Check: checkIntegerToDateTime, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		return values.DateTime(int64(args[0].(values.Integer))), nil
	}})
	register(Builtin{Name: "DateTimeToEpochMilliseconds", Check: checkUnaryDateTime(types.Integer), Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		return values.Integer(int64(args[0].(values.DateTime))), nil
	}})
	register(Builtin{Name: "DateTimePrint", Check: checkDateTimeFormat, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		t := epochMillisToTime(int64(args[0].(values.DateTime)))
		tokens := args[1].(*values.Array)
		var b strings.Builder
		for _, tok := range tokens.Elements {
			b.WriteString(formatDateTimeToken(t, string(tok.(values.String))))
		}
		return values.String(b.String()), nil
	}})
	register(Builtin{Name: "DateTimeParse", Check: checkDateTimeParse, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		s := string(args[0].(values.String))
		tokens := args[1].(*values.Array)
		c := dateTimeComponents{year: 1970, month: 1, day: 1}
		for _, tok := range tokens.Elements {
			var err error
			s, err = parseDateTimeToken(s, string(tok.(values.String)), &c)
			if err != nil {
				return nil, err
			}
		}
		if s != "" {
			return nil, fmt.Errorf("DateTimeParse: unconsumed input %q", s)
		}
		t := time.Date(c.year, time.Month(c.month), c.day, c.hour, c.minute, c.second, c.millisecond*1e6, time.UTC)
		return values.DateTime(timeToEpochMillis(t)), nil
	}})
}

func checkUnaryDateTime(out types.Type) Check {
	return func(_ []types.Type, args []types.Type) (types.Type, error) {
		if len(args) != 1 || args[0].Kind() != types.KindDateTime {
			return nil, errArity("DateTime operator", 1, len(args))
		}
		return out, nil
	}
}

func checkIntegerToDateTime(_ []types.Type, args []types.Type) (types.Type, error) {
	if len(args) != 1 || args[0].Kind() != types.KindInteger {
		return nil, errArity("DateTime operator", 1, len(args))
	}
	return types.DateTime, nil
}

func checkDateTimeFromComponents(_ []types.Type, args []types.Type) (types.Type, error) {
	if len(args) != 1 || !types.TypeEqual(args[0], DateTimeComponentsType) {
		return nil, errArity("DateTimeFromComponents", 1, len(args))
	}
	return types.DateTime, nil
}

func checkDateTimeFormat(_ []types.Type, args []types.Type) (types.Type, error) {
	if len(args) != 2 || args[0].Kind() != types.KindDateTime {
		return nil, errArity("DateTimePrint", 2, len(args))
	}
	arr, ok := args[1].(*types.Array)
	if !ok || arr.Elem.Kind() != types.KindString {
		return nil, errArity("DateTimePrint", 2, len(args))
	}
	return types.String, nil
}

func checkDateTimeParse(_ []types.Type, args []types.Type) (types.Type, error) {
	if len(args) != 2 || args[0].Kind() != types.KindString {
		return nil, errArity("DateTimeParse", 2, len(args))
	}
	arr, ok := args[1].(*types.Array)
	if !ok || arr.Elem.Kind() != types.KindString {
		return nil, errArity("DateTimeParse", 2, len(args))
	}
	return types.DateTime, nil
}

// formatDateTimeToken renders one literal or directive token. The
// format mini-language's full grammar is out of scope (spec.md's
// Non-goals); this covers the token set the print builtin needs to
// stay exercisable without depending on it.
func formatDateTimeToken(t time.Time, tok string) string {
	switch tok {
	case "YYYY":
		return t.Format("2006")
	case "MM":
		return t.Format("01")
	case "DD":
		return t.Format("02")
	case "hh":
		return t.Format("15")
	case "mm":
		return t.Format("04")
	case "ss":
		return t.Format("05")
	case "SSS":
		return t.Format(".000")[1:]
	default:
		return tok
	}
}

// dateTimeComponents accumulates the fields DateTimeParse fills in as
// it walks the token list against the input string.
type dateTimeComponents struct {
	year, month, day, hour, minute, second, millisecond int
}

// parseDateTimeToken consumes tok's match from the front of s, writing
// into c for a directive token or requiring an exact match for a
// literal one, and returns the remainder of s.
func parseDateTimeToken(s, tok string, c *dateTimeComponents) (string, error) {
	switch tok {
	case "YYYY":
		return parseDateTimeInt(s, 4, &c.year)
	case "MM":
		return parseDateTimeInt(s, 2, &c.month)
	case "DD":
		return parseDateTimeInt(s, 2, &c.day)
	case "hh":
		return parseDateTimeInt(s, 2, &c.hour)
	case "mm":
		return parseDateTimeInt(s, 2, &c.minute)
	case "ss":
		return parseDateTimeInt(s, 2, &c.second)
	case "SSS":
		return parseDateTimeInt(s, 3, &c.millisecond)
	default:
		if !strings.HasPrefix(s, tok) {
			return "", fmt.Errorf("DateTimeParse: expected %q, got %q", tok, s)
		}
		return s[len(tok):], nil
	}
}

func parseDateTimeInt(s string, width int, out *int) (string, error) {
	if len(s) < width {
		return "", fmt.Errorf("DateTimeParse: expected %d digits, got %q", width, s)
	}
	n, err := strconv.Atoi(s[:width])
	if err != nil {
		return "", fmt.Errorf("DateTimeParse: invalid digits %q: %w", s[:width], err)
	}
	*out = n
	return s[width:], nil
}

func epochMillisToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func timeToEpochMillis(t time.Time) int64 {
	return t.UnixMilli()
}
