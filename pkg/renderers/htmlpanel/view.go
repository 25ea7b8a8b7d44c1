package htmlpanel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-debugbar/pkg/render"
	"github.com/goliatone/go-debugbar/pkg/widgets"
)

// ThemeStylesheetKey is the theme asset key of an extra panel stylesheet.
const ThemeStylesheetKey = "debugbar.stylesheet"

type indicatorView struct {
	Key     string `json:"key"`
	Icon    string `json:"icon"`
	Tooltip string `json:"tooltip"`
	Value   string `json:"value"`
}

type rowView struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type tabView struct {
	Key   string    `json:"key"`
	Label string    `json:"label"`
	Icon  string    `json:"icon"`
	Kind  string    `json:"kind"`
	Badge string    `json:"badge"`
	Rows  []rowView `json:"rows"`
	Items []string  `json:"items"`
	Text  string    `json:"text"`
}

type themeView struct {
	Name    string `json:"name"`
	Variant string `json:"variant"`
	Style   string `json:"style"`
}

type metaView struct {
	Method   string `json:"method"`
	URI      string `json:"uri"`
	IP       string `json:"ip"`
	Datetime string `json:"datetime"`
}

type panelView struct {
	ID          string          `json:"id"`
	Meta        metaView        `json:"meta"`
	Theme       themeView       `json:"theme"`
	Stylesheets []string        `json:"stylesheets"`
	Scripts     []string        `json:"scripts"`
	Indicators  []indicatorView `json:"indicators"`
	Tabs        []tabView       `json:"tabs"`
	Bootstrap   string          `json:"bootstrap"`
}

func buildView(panel render.Panel, options render.RenderOptions) (panelView, error) {
	data, err := genericData(panel.Snapshot.Data)
	if err != nil {
		return panelView{}, err
	}

	view := panelView{
		ID: panel.Snapshot.ID,
		Meta: metaView{
			Method: panel.Snapshot.Meta.Method,
			URI:    panel.Snapshot.Meta.URI,
			IP:     panel.Snapshot.Meta.IP,
		},
		Theme:       buildTheme(options.Theme),
		Indicators:  []indicatorView{},
		Tabs:        []tabView{},
		Stylesheets: []string{},
		Scripts:     []string{},
	}
	if !panel.Snapshot.Meta.Datetime.IsZero() {
		view.Meta.Datetime = panel.Snapshot.Meta.Datetime.Format(time.RFC3339)
	}

	view.Stylesheets, view.Scripts = assetURLs(panel, options)

	for _, key := range panel.Widgets.Names() {
		if strings.HasSuffix(key, widgets.BadgeSuffix) {
			continue
		}
		desc := panel.Widgets[key]
		value := resolveValue(data, key, desc)

		if desc.Widget == "" || desc.Widget == widgets.KindText {
			view.Indicators = append(view.Indicators, indicatorView{
				Key:     key,
				Icon:    iconMarkup(desc.Icon),
				Tooltip: sanitizeText(desc.Tooltip),
				Value:   sanitizeText(stringify(value)),
			})
			continue
		}

		tab := tabView{
			Key:   key,
			Label: sanitizeText(label(key)),
			Icon:  iconMarkup(desc.Icon),
			Kind:  string(desc.Widget),
		}
		if badge, ok := panel.Widgets[key+widgets.BadgeSuffix]; ok {
			tab.Badge = sanitizeText(stringify(resolveValue(data, "", badge)))
		}
		fillTab(&tab, desc.Widget, value)
		view.Tabs = append(view.Tabs, tab)
	}

	bootstrap, err := json.Marshal(map[string]any{
		"id":           panel.Snapshot.ID,
		"data":         data,
		"widgets":      bootstrapWidgets(panel.Widgets),
		"constructors": panel.Constructors,
	})
	if err != nil {
		return panelView{}, fmt.Errorf("htmlpanel: encode bootstrap: %w", err)
	}
	view.Bootstrap = string(bootstrap)
	return view, nil
}

func buildTheme(cfg *theme.RendererConfig) themeView {
	if cfg == nil {
		return themeView{}
	}
	return themeView{
		Name:    cfg.Theme,
		Variant: cfg.Variant,
		Style:   render.CSSVarsStyle(cfg.CSSVars),
	}
}

func assetURLs(panel render.Panel, options render.RenderOptions) ([]string, []string) {
	base := strings.TrimRight(options.AssetBaseURL, "/")
	stylesheets := []string{base + "/debugbar.css"}
	scripts := []string{base + "/debugbar.js"}

	for _, desc := range panel.Assets {
		for _, url := range desc.URLs() {
			if strings.HasSuffix(url, ".css") {
				stylesheets = append(stylesheets, url)
			} else {
				scripts = append(scripts, url)
			}
		}
	}
	if options.Theme != nil && options.Theme.AssetURL != nil {
		if url := options.Theme.AssetURL(ThemeStylesheetKey); url != "" {
			stylesheets = append(stylesheets, url)
		}
	}
	return stylesheets, scripts
}

func fillTab(tab *tabView, kind widgets.Kind, value any) {
	value = decodeDefault(value)
	switch kind {
	case widgets.KindVariableList:
		values, _ := value.(map[string]any)
		keys := make([]string, 0, len(values))
		for key := range values {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		tab.Rows = make([]rowView, 0, len(keys))
		for _, key := range keys {
			tab.Rows = append(tab.Rows, rowView{
				Key:   sanitizeText(key),
				Value: sanitizeText(stringify(values[key])),
			})
		}
	case widgets.KindList:
		items, _ := value.([]any)
		tab.Items = make([]string, 0, len(items))
		for _, item := range items {
			tab.Items = append(tab.Items, sanitizeText(stringify(item)))
		}
	default:
		tab.Text = sanitizeText(stringify(value))
	}
}

// resolveValue looks up desc.Map, or key when the descriptor has no map, in
// the generic snapshot data and falls back to the descriptor default.
func resolveValue(data map[string]any, key string, desc widgets.Descriptor) any {
	path := desc.Map
	if path == "" {
		path = key
	}
	var current any = data
	for _, segment := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return desc.Default
		}
		if current, ok = m[segment]; !ok {
			return desc.Default
		}
	}
	return current
}

// decodeDefault turns "{}" and "[]" style defaults into their JSON values.
func decodeDefault(value any) any {
	s, ok := value.(string)
	if !ok {
		return value
	}
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return value
	}
	var decoded any
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
		return value
	}
	return decoded
}

func genericData(in map[string]map[string]any) (map[string]any, error) {
	if len(in) == 0 {
		return map[string]any{}, nil
	}
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("htmlpanel: encode snapshot data: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	out := map[string]any{}
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("htmlpanel: decode snapshot data: %w", err)
	}
	return out, nil
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool, int, int64, float64:
		return fmt.Sprint(v)
	default:
		payload, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(payload)
	}
}

func label(key string) string {
	if idx := strings.LastIndex(key, "."); idx >= 0 {
		return key[idx+1:]
	}
	return key
}
