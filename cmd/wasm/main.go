//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"doctrans/internal/adapter/cache"
	"doctrans/internal/adapter/docstring"
	"doctrans/internal/domain"
)

var (
	parseCache *cache.ParseCache
	parser     *cache.CachedParser
)

func init() {
	parseCache = cache.NewParseCache(256)
	parser = cache.NewCachedParser(docstring.NewParser(), parseCache, nil)
}

func main() {
	c := make(chan struct{})

	js.Global().Set("doctransParse", js.FuncOf(parseDocstring))
	js.Global().Set("doctransConvert", js.FuncOf(convertDocstring))
	js.Global().Set("doctransRender", js.FuncOf(renderIR))
	js.Global().Set("doctransSniff", js.FuncOf(sniffDocstring))
	js.Global().Set("doctransClear", js.FuncOf(clearCache))
	js.Global().Set("doctransStats", js.FuncOf(getStats))

	<-c
}

func optionsFrom(args []js.Value, at int) (domain.ParseOptions, string) {
	var opts domain.ParseOptions
	if len(args) > at && args[at].Type() == js.TypeString {
		style, ok := domain.ParseStyle(args[at].String())
		if !ok {
			return opts, "unknown style: " + args[at].String()
		}
		opts.Style = style
	}
	if len(args) > at+1 && args[at+1].Type() == js.TypeBoolean {
		opts.EmitDefaultDoc = args[at+1].Bool()
	}
	return opts, ""
}

func parseDocstring(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: doctransParse(text, [style], [emitDefaultDoc])")
	}
	opts, msg := optionsFrom(args, 1)
	if msg != "" {
		return makeError(msg)
	}

	ir, err := parser.Parse(args[0].String(), opts)
	if err != nil {
		return makeError("parse failed: " + err.Error())
	}
	return makeResult(map[string]interface{}{
		"ir": ir,
	})
}

func convertDocstring(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return makeError("usage: doctransConvert(text, to, [style], [emitDefaultDoc])")
	}
	to, ok := domain.ParseStyle(args[1].String())
	if !ok || to == "" {
		return makeError("unknown target style: " + args[1].String())
	}
	opts, msg := optionsFrom(args, 2)
	if msg != "" {
		return makeError(msg)
	}

	ir, err := parser.Parse(args[0].String(), opts)
	if err != nil {
		return makeError("parse failed: " + err.Error())
	}
	out, err := docstring.Render(ir, to)
	if err != nil {
		return makeError("render failed: " + err.Error())
	}
	return makeResult(map[string]interface{}{
		"text": out,
		"ir":   ir,
	})
}

func renderIR(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return makeError("usage: doctransRender(irJSON, style)")
	}
	var ir domain.IR
	if err := json.Unmarshal([]byte(args[0].String()), &ir); err != nil {
		return makeError("invalid ir: " + err.Error())
	}
	style, ok := domain.ParseStyle(args[1].String())
	if !ok || style == "" {
		return makeError("unknown style: " + args[1].String())
	}

	out, err := docstring.Render(ir, style)
	if err != nil {
		return makeError("render failed: " + err.Error())
	}
	return makeResult(map[string]interface{}{
		"text": out,
	})
}

func sniffDocstring(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: doctransSniff(text)")
	}
	style, err := docstring.Sniff(args[0].String())
	if err != nil {
		return makeError("sniff failed: " + err.Error())
	}
	return makeResult(map[string]interface{}{
		"style": style,
	})
}

func clearCache(this js.Value, args []js.Value) interface{} {
	parseCache.Invalidate()
	return makeResult(map[string]interface{}{
		"success": true,
	})
}

func getStats(this js.Value, args []js.Value) interface{} {
	return makeResult(map[string]interface{}{
		"cached": parseCache.Size(),
		"hits":   parser.Hits(),
	})
}

func makeError(msg string) interface{} {
	result, _ := json.Marshal(map[string]interface{}{
		"error": msg,
	})
	return string(result)
}

func makeResult(data map[string]interface{}) interface{} {
	result, _ := json.Marshal(data)
	return string(result)
}
