package interp

import (
	"strings"

	"utcl/internal/value"
)

func registerListBuiltins(i *Interp) {
	i.Register("list", 1, -1, cmdList, nil)
	i.Register("lindex", 3, 3, cmdLindex, nil)
	i.Register("llength", 2, 2, cmdLlength, nil)
	i.Register("lrange", 4, 4, cmdLrange, nil)
	i.Register("lreplace", 4, -1, cmdLreplace, nil)
	i.Register("lappend", 3, -1, cmdLappend, nil)
	i.Register("concat", 1, -1, cmdConcat, nil)
	i.Register("split", 2, 3, cmdSplit, nil)
	i.Register("join", 2, 3, cmdJoin, nil)
}

func cmdList(i *Interp, args *value.Value, _ any) Flow {
	out := value.Empty()
	for _, item := range value.ListItems(args)[1:] {
		value.ListAppend(out, item)
	}
	return i.SetResult(out)
}

func cmdLindex(i *Interp, args *value.Value, _ any) Flow {
	list := value.ListIndex(args, 1)
	idx := int(value.ListIndex(args, 2).Int())
	return i.SetResult(value.ListIndex(list, idx))
}

func cmdLlength(i *Interp, args *value.Value, _ any) Flow {
	list := value.ListIndex(args, 1)
	return i.SetResult(value.FromInt(int64(value.ListLength(list))))
}

func cmdLrange(i *Interp, args *value.Value, _ any) Flow {
	items := value.ListItems(value.ListIndex(args, 1))
	from := int(value.ListIndex(args, 2).Int())
	to := int(value.ListIndex(args, 3).Int())
	if from < 0 {
		from = 0
	}
	if to >= len(items) {
		to = len(items) - 1
	}
	out := value.Empty()
	for k := from; k <= to; k++ {
		value.ListAppend(out, items[k])
	}
	return i.SetResult(out)
}

// cmdLreplace rebuilds the list with elements first..last (inclusive)
// replaced by the remaining arguments, which may be empty.
func cmdLreplace(i *Interp, args *value.Value, _ any) Flow {
	items := value.ListItems(value.ListIndex(args, 1))
	first := int(value.ListIndex(args, 2).Int())
	last := int(value.ListIndex(args, 3).Int())
	if first < 0 {
		first = 0
	}
	out := value.Empty()
	for k := 0; k < first && k < len(items); k++ {
		value.ListAppend(out, items[k])
	}
	for _, item := range value.ListItems(args)[4:] {
		value.ListAppend(out, item)
	}
	for k := last + 1; k < len(items); k++ {
		if k < 0 {
			continue
		}
		value.ListAppend(out, items[k])
	}
	return i.SetResult(out)
}

func cmdLappend(i *Interp, args *value.Value, _ any) Flow {
	name := value.ListIndex(args, 1).String()
	list := value.Empty()
	if i.existsVar(name) {
		var fl Flow
		if list, fl = i.readVar(name); fl != FlowNormal {
			return fl
		}
	}
	for _, item := range value.ListItems(args)[2:] {
		value.ListAppend(list, item)
	}
	res := value.Dup(list)
	if fl := i.writeVar(name, list); fl != FlowNormal {
		return fl
	}
	return i.SetResult(res)
}

// cmdConcat flattens its arguments one level: each argument is read as a
// list and its elements are appended to the result.
func cmdConcat(i *Interp, args *value.Value, _ any) Flow {
	out := value.Empty()
	for _, arg := range value.ListItems(args)[1:] {
		for _, item := range value.ListItems(arg) {
			value.ListAppend(out, item)
		}
	}
	return i.SetResult(out)
}

// cmdSplit cuts a string into a list on any byte of the separator set
// (whitespace when omitted). An empty separator splits into single bytes.
func cmdSplit(i *Interp, args *value.Value, _ any) Flow {
	s := value.ListIndex(args, 1).String()
	sep := " \t\r\n"
	explicit := false
	if value.ListLength(args) == 3 {
		sep = value.ListIndex(args, 2).String()
		explicit = true
	}
	out := value.Empty()
	if explicit && sep == "" {
		for k := 0; k < len(s); k++ {
			value.ListAppend(out, value.New(s[k:k+1]))
		}
		return i.SetResult(out)
	}
	start := 0
	for k := 0; k <= len(s); k++ {
		if k < len(s) && !strings.ContainsRune(sep, rune(s[k])) {
			continue
		}
		if explicit || k > start {
			value.ListAppend(out, value.New(s[start:k]))
		}
		start = k + 1
	}
	return i.SetResult(out)
}

func cmdJoin(i *Interp, args *value.Value, _ any) Flow {
	items := value.ListItems(value.ListIndex(args, 1))
	sep := " "
	if value.ListLength(args) == 3 {
		sep = value.ListIndex(args, 2).String()
	}
	out := value.Empty()
	for k, item := range items {
		if k > 0 {
			out.AppendString(sep)
		}
		out.Append(item)
	}
	return i.SetResult(out)
}
