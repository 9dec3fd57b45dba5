package interp

import (
	"strconv"
	"strings"

	"utcl/internal/value"
)

func registerStringBuiltins(i *Interp) {
	i.Register("string", 3, 6, cmdString, nil)
	i.Register("format", 2, -1, cmdFormat, nil)
	i.Register("scan", 4, 4, cmdScan, nil)
}

func boolResult(i *Interp, b bool) Flow {
	if b {
		return i.SetResult(value.FromInt(1))
	}
	return i.SetResult(value.FromInt(0))
}

func cmdString(i *Interp, args *value.Value, _ any) Flow {
	sub := value.ListIndex(args, 1).String()
	s := value.ListIndex(args, 2).String()
	argc := value.ListLength(args)
	arg := func(k int) string { return value.ListIndex(args, k).String() }

	switch sub {
	case "length":
		return i.SetResult(value.FromInt(int64(len(s))))
	case "tolower":
		return i.SetResult(value.New(strings.ToLower(s)))
	case "toupper":
		return i.SetResult(value.New(strings.ToUpper(s)))
	case "trim":
		cut := " \t\r\n"
		if argc == 4 {
			cut = arg(3)
		}
		return i.SetResult(value.New(strings.Trim(s, cut)))
	case "trimleft":
		cut := " \t\r\n"
		if argc == 4 {
			cut = arg(3)
		}
		return i.SetResult(value.New(strings.TrimLeft(s, cut)))
	case "trimright":
		cut := " \t\r\n"
		if argc == 4 {
			cut = arg(3)
		}
		return i.SetResult(value.New(strings.TrimRight(s, cut)))
	case "compare":
		if argc != 4 {
			return i.Fail(CodeBadParam, "string")
		}
		return i.SetResult(value.FromInt(int64(strings.Compare(s, arg(3)))))
	case "equal":
		if argc != 4 {
			return i.Fail(CodeBadParam, "string")
		}
		return boolResult(i, s == arg(3))
	case "first":
		if argc != 4 {
			return i.Fail(CodeBadParam, "string")
		}
		return i.SetResult(value.FromInt(int64(strings.Index(arg(3), s))))
	case "last":
		if argc != 4 {
			return i.Fail(CodeBadParam, "string")
		}
		return i.SetResult(value.FromInt(int64(strings.LastIndex(arg(3), s))))
	case "index":
		if argc != 4 {
			return i.Fail(CodeBadParam, "string")
		}
		k := int(value.ListIndex(args, 3).Int())
		if k < 0 || k >= len(s) {
			return i.SetResult(value.Empty())
		}
		return i.SetResult(value.New(s[k : k+1]))
	case "match":
		if argc != 4 {
			return i.Fail(CodeBadParam, "string")
		}
		return boolResult(i, globMatch(s, arg(3)))
	case "range":
		if argc != 5 {
			return i.Fail(CodeBadParam, "string")
		}
		from := int(value.ListIndex(args, 3).Int())
		to := int(value.ListIndex(args, 4).Int())
		if from < 0 {
			from = 0
		}
		if to >= len(s) {
			to = len(s) - 1
		}
		if from > to {
			return i.SetResult(value.Empty())
		}
		return i.SetResult(value.New(s[from : to+1]))
	case "replace":
		if argc != 6 {
			return i.Fail(CodeBadParam, "string")
		}
		from := int(value.ListIndex(args, 3).Int())
		to := int(value.ListIndex(args, 4).Int())
		if from < 0 {
			from = 0
		}
		if to >= len(s) {
			to = len(s) - 1
		}
		if from > to || from >= len(s) {
			return i.SetResult(value.New(s))
		}
		return i.SetResult(value.New(s[:from] + arg(5) + s[to+1:]))
	}
	return i.Fail(CodeBadParam, "string")
}

// cmdFormat renders a printf-style template against integer and string
// arguments. Supported verbs are %d %u %x %X %o %c %s and %%, each with
// optional -, 0 flags and a width.
func cmdFormat(i *Interp, args *value.Value, _ any) Flow {
	tmpl := value.ListIndex(args, 1).String()
	items := value.ListItems(args)[2:]
	out := value.Empty()
	next := 0
	take := func() *value.Value {
		if next < len(items) {
			v := items[next]
			next++
			return v
		}
		return value.Empty()
	}
	for k := 0; k < len(tmpl); k++ {
		c := tmpl[k]
		if c != '%' {
			out.AppendByte(c)
			continue
		}
		k++
		if k >= len(tmpl) {
			return i.Fail(CodeBadParam, "format")
		}
		left, zero := false, false
		for k < len(tmpl) && (tmpl[k] == '-' || tmpl[k] == '0') {
			if tmpl[k] == '-' {
				left = true
			} else {
				zero = true
			}
			k++
		}
		width := 0
		for k < len(tmpl) && tmpl[k] >= '0' && tmpl[k] <= '9' {
			width = width*10 + int(tmpl[k]-'0')
			k++
		}
		if k >= len(tmpl) {
			return i.Fail(CodeBadParam, "format")
		}
		var field string
		switch tmpl[k] {
		case '%':
			field = "%"
		case 'd':
			field = strconv.FormatInt(take().Int(), 10)
		case 'u':
			field = strconv.FormatUint(uint64(take().Int()), 10)
		case 'x':
			field = strconv.FormatUint(uint64(take().Int()), 16)
		case 'X':
			field = strings.ToUpper(strconv.FormatUint(uint64(take().Int()), 16))
		case 'o':
			field = strconv.FormatUint(uint64(take().Int()), 8)
		case 'c':
			field = string(rune(take().Int()))
		case 's':
			field = take().String()
		default:
			return i.Fail(CodeBadParam, "format")
		}
		pad := byte(' ')
		if zero && !left {
			pad = '0'
		}
		for !left && len(field) < width {
			field = string(pad) + field
		}
		for left && len(field) < width {
			field += " "
		}
		out.AppendString(field)
	}
	return i.SetResult(out)
}

// cmdScan extracts one value from input text by template. Only the single
// conversion forms %d, %x and %c are supported; the extracted value is
// stored in the named variable and the result is the number of
// conversions, 0 or 1.
func cmdScan(i *Interp, args *value.Value, _ any) Flow {
	input := value.ListIndex(args, 1).String()
	tmpl := value.ListIndex(args, 2).String()
	name := value.ListIndex(args, 3).String()

	verb := strings.IndexByte(tmpl, '%')
	if verb < 0 || verb+1 >= len(tmpl) {
		return i.Fail(CodeBadParam, "scan")
	}
	prefix := tmpl[:verb]
	if !strings.HasPrefix(input, prefix) {
		return i.SetResult(value.FromInt(0))
	}
	rest := strings.TrimLeft(input[len(prefix):], " \t")

	var n int64
	var werr error
	switch tmpl[verb+1] {
	case 'd':
		end := 0
		if end < len(rest) && (rest[end] == '-' || rest[end] == '+') {
			end++
		}
		for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
			end++
		}
		n, werr = strconv.ParseInt(rest[:end], 10, 64)
	case 'x':
		end := 0
		for end < len(rest) && isHexDigit(rest[end]) {
			end++
		}
		var u uint64
		u, werr = strconv.ParseUint(rest[:end], 16, 64)
		n = int64(u)
	case 'c':
		if rest == "" {
			return i.SetResult(value.FromInt(0))
		}
		n = int64(rest[0])
	default:
		return i.Fail(CodeBadParam, "scan")
	}
	if werr != nil {
		return i.SetResult(value.FromInt(0))
	}
	if fl := i.writeVar(name, value.FromInt(n)); fl != FlowNormal {
		return fl
	}
	return i.SetResult(value.FromInt(1))
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
