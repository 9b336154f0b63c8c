package runtime

import (
	"encoding/json"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/language"

	"github.com/elaraai/east/types"
	"github.com/elaraai/east/values"
)

func init() {
	register(Builtin{Name: "StringConcat", Check: checkBinaryString, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		return args[0].(values.String) + args[1].(values.String), nil
	}})
	register(Builtin{Name: "StringRepeat", Check: checkStringInt, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		n := int64(args[1].(values.Integer))
		if n < 0 {
			n = 0
		}
		return values.String(strings.Repeat(string(args[0].(values.String)), int(n))), nil
	}})
	register(Builtin{Name: "StringLength", Check: checkUnaryString(types.Integer), Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		return values.Integer(len([]rune(string(args[0].(values.String))))), nil
	}})
	register(Builtin{Name: "StringSubstring", Check: checkStringIntInt, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		r := []rune(string(args[0].(values.String)))
		start := clampIndex(int64(args[1].(values.Integer)), len(r))
		end := clampIndex(int64(args[2].(values.Integer)), len(r))
		if end < start {
			end = start
		}
		return values.String(string(r[start:end])), nil
	}})
	register(Builtin{Name: "StringToUpperCase", Check: checkUnaryString(types.String), Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		return values.String(cases.Upper(language.Und).String(string(args[0].(values.String)))), nil
	}})
	register(Builtin{Name: "StringToLowerCase", Check: checkUnaryString(types.String), Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		return values.String(cases.Lower(language.Und).String(string(args[0].(values.String)))), nil
	}})
	register(Builtin{Name: "StringSplit", Check: checkBinaryStringToArray, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		parts := strings.Split(string(args[0].(values.String)), string(args[1].(values.String)))
		out := values.NewArray(types.String)
		for _, p := range parts {
			out.Elements = append(out.Elements, values.String(p))
		}
		return out, nil
	}})
	register(Builtin{Name: "StringTrim", Check: checkUnaryString(types.String), Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		return values.String(strings.TrimSpace(string(args[0].(values.String)))), nil
	}})
	register(Builtin{Name: "StringTrimStart", Check: checkUnaryString(types.String), Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		return values.String(strings.TrimLeft(string(args[0].(values.String)), " \t\n\r")), nil
	}})
	register(Builtin{Name: "StringTrimEnd", Check: checkUnaryString(types.String), Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		return values.String(strings.TrimRight(string(args[0].(values.String)), " \t\n\r")), nil
	}})
	register(Builtin{Name: "StringStartsWith", Check: checkBinaryStringBool, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		return values.Boolean(strings.HasPrefix(string(args[0].(values.String)), string(args[1].(values.String)))), nil
	}})
	register(Builtin{Name: "StringEndsWith", Check: checkBinaryStringBool, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		return values.Boolean(strings.HasSuffix(string(args[0].(values.String)), string(args[1].(values.String)))), nil
	}})
	register(Builtin{Name: "StringContains", Check: checkBinaryStringBool, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		return values.Boolean(strings.Contains(string(args[0].(values.String)), string(args[1].(values.String)))), nil
	}})
	register(Builtin{Name: "StringIndexOf", Check: checkStringString(types.Integer), Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		return values.Integer(strings.Index(string(args[0].(values.String)), string(args[1].(values.String)))), nil
	}})
	register(Builtin{Name: "StringReplace", Check: checkStringStringString, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		s := string(args[0].(values.String))
		old := string(args[1].(values.String))
		n := string(args[2].(values.String))
		return values.String(strings.ReplaceAll(s, old, n)), nil
	}})
	register(Builtin{Name: "StringRegexContains", Check: checkBinaryStringBool, Eval: regexEval(func(re *regexp.Regexp, s string, _ string) (values.Value, error) {
		return values.Boolean(re.MatchString(s)), nil
	})})
	register(Builtin{Name: "StringRegexIndexOf", Check: checkStringString(types.Integer), Eval: regexEval(func(re *regexp.Regexp, s string, _ string) (values.Value, error) {
		loc := re.FindStringIndex(s)
		if loc == nil {
			return values.Integer(-1), nil
		}
		return values.Integer(loc[0]), nil
	})})
	register(Builtin{Name: "StringRegexReplace", Check: checkStringStringString, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		re, err := regexp.Compile(string(args[1].(values.String)))
		if err != nil {
			return nil, values.NewEastError("invalid regular expression: " + err.Error())
		}
		return values.String(re.ReplaceAllString(string(args[0].(values.String)), string(args[2].(values.String)))), nil
	}})
	register(Builtin{Name: "StringEncodeUtf8", Check: checkUnaryString(types.Blob), Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		return values.Blob([]byte(string(args[0].(values.String)))), nil
	}})
	register(Builtin{Name: "StringEncodeUtf16", Check: checkUnaryString(types.Blob), Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		enc := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
		out, err := enc.String(string(args[0].(values.String)))
		if err != nil {
			return nil, values.NewEastError("cannot encode string as UTF-16: " + err.Error())
		}
		return values.Blob([]byte(out)), nil
	}})
	register(Builtin{Name: "StringPrintJSON", Check: checkPrintJSON, Eval: func(typeParams []types.Type, args []values.Value) (values.Value, error) {
		j, err := jsonFromValue(typeParams[0], args[0])
		if err != nil {
			return nil, err
		}
		b, err := json.Marshal(j)
		if err != nil {
			return nil, values.NewEastError("cannot encode value as JSON: " + err.Error())
		}
		return values.String(b), nil
	}})
	register(Builtin{Name: "StringParseJSON", Check: checkParseJSON, Eval: func(typeParams []types.Type, args []values.Value) (values.Value, error) {
		var j interface{}
		if err := json.Unmarshal([]byte(string(args[0].(values.String))), &j); err != nil {
			return nil, values.NewEastError("cannot parse JSON: " + err.Error())
		}
		return valueFromJSON(typeParams[0], j)
	}})
}

func checkPrintJSON(typeParams []types.Type, args []types.Type) (types.Type, error) {
	if len(typeParams) != 1 || len(args) != 1 || !types.TypeEqual(args[0], typeParams[0]) {
		return nil, errArity("StringPrintJSON", 1, len(args))
	}
	return types.String, nil
}

func checkParseJSON(typeParams []types.Type, args []types.Type) (types.Type, error) {
	if len(typeParams) != 1 || len(args) != 1 || args[0].Kind() != types.KindString {
		return nil, errArity("StringParseJSON", 1, len(args))
	}
	return typeParams[0], nil
}

func clampIndex(n int64, length int) int {
	if n < 0 {
		return 0
	}
	if int(n) > length {
		return length
	}
	return int(n)
}

func checkBinaryString(_ []types.Type, args []types.Type) (types.Type, error) {
	if len(args) != 2 || args[0].Kind() != types.KindString || args[1].Kind() != types.KindString {
		return nil, errArity("string operator", 2, len(args))
	}
	return types.String, nil
}

func checkUnaryString(out types.Type) Check {
	return func(_ []types.Type, args []types.Type) (types.Type, error) {
		if len(args) != 1 || args[0].Kind() != types.KindString {
			return nil, errArity("string operator", 1, len(args))
		}
		return out, nil
	}
}

func checkStringString(out types.Type) Check {
	return func(_ []types.Type, args []types.Type) (types.Type, error) {
		if len(args) != 2 || args[0].Kind() != types.KindString || args[1].Kind() != types.KindString {
			return nil, errArity("string operator", 2, len(args))
		}
		return out, nil
	}
}

func checkStringStringString(_ []types.Type, args []types.Type) (types.Type, error) {
	if len(args) != 3 || args[0].Kind() != types.KindString || args[1].Kind() != types.KindString || args[2].Kind() != types.KindString {
		return nil, errArity("string operator", 3, len(args))
	}
	return types.String, nil
}

func checkBinaryStringBool(_ []types.Type, args []types.Type) (types.Type, error) {
	if len(args) != 2 || args[0].Kind() != types.KindString || args[1].Kind() != types.KindString {
		return nil, errArity("string operator", 2, len(args))
	}
	return types.Boolean, nil
}

func checkBinaryStringToArray(_ []types.Type, args []types.Type) (types.Type, error) {
	if len(args) != 2 || args[0].Kind() != types.KindString || args[1].Kind() != types.KindString {
		return nil, errArity("StringSplit", 2, len(args))
	}
	return types.NewArray(types.String), nil
}

func checkStringInt(_ []types.Type, args []types.Type) (types.Type, error) {
	if len(args) != 2 || args[0].Kind() != types.KindString || args[1].Kind() != types.KindInteger {
		return nil, errArity("string operator", 2, len(args))
	}
	return types.String, nil
}

func checkStringIntInt(_ []types.Type, args []types.Type) (types.Type, error) {
	if len(args) != 3 || args[0].Kind() != types.KindString || args[1].Kind() != types.KindInteger || args[2].Kind() != types.KindInteger {
		return nil, errArity("StringSubstring", 3, len(args))
	}
	return types.String, nil
}

func regexEval(f func(re *regexp.Regexp, s string, pattern string) (values.Value, error)) Eval {
	return func(_ []types.Type, args []values.Value) (values.Value, error) {
		pattern := string(args[1].(values.String))
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, values.NewEastError("invalid regular expression: " + err.Error())
		}
		return f(re, string(args[0].(values.String)), pattern)
	}
}
