package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"math"
	"mime"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"

	"LeverageScope/internal/calculator"
	"LeverageScope/internal/model"
)

const maxUpdateBody = 1 << 10

var errNoFrame = errors.New("no frame drawn yet")

// Summary is the compact JSON view of a frame.
type Summary struct {
	LR0      float64      `json:"lr0"`
	State    string       `json:"state"`
	Source   string       `json:"source"`
	Title    string       `json:"title"`
	XLim     model.Limits `json:"xlim"`
	YLim     model.Limits `json:"ylim"`
	Samples  int          `json:"samples"`
	CallEnd  float64      `json:"call_end"`
	ShortEnd float64      `json:"short_end"`
	RatioEnd float64      `json:"ratio_end"`
}

func summarize(f *model.Frame) Summary {
	return Summary{
		LR0:      f.LR0,
		State:    string(f.State),
		Source:   f.Source,
		Title:    f.Title,
		XLim:     f.XLim,
		YLim:     f.YLim,
		Samples:  len(f.T),
		CallEnd:  f.Last(model.CurveCall),
		ShortEnd: f.Last(model.CurveShort),
		RatioEnd: f.Last(model.CurveRatio),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// parseLR0 reads lr0 from a JSON body or a form field.
func parseLR0(w http.ResponseWriter, r *http.Request) (float64, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpdateBody)
	var v float64
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		var body struct {
			LR0 *float64 `json:"lr0"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return 0, fmt.Errorf("decode body: %w", err)
		}
		if body.LR0 == nil {
			return 0, errors.New("lr0 is required")
		}
		v = *body.LR0
	} else {
		raw := r.FormValue("lr0")
		if raw == "" {
			return 0, errors.New("lr0 is required")
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, fmt.Errorf("lr0 %q is not a number", raw)
		}
		v = f
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("lr0 must be finite")
	}
	return v, nil
}

// UpdateHandler dispatches a posted LR(0) to the control and answers with
// the frame that resulted. A frame that does not show the clamped value
// means the controller rejected the update.
func UpdateHandler(ctrl *Control, pres *Presenter, params model.Params, limiter *rate.Limiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if limiter != nil && !limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "too many updates")
			return
		}
		v, err := parseLR0(w, r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if ctrl.emit(v) == 0 {
			writeError(w, http.StatusServiceUnavailable, "no controller bound")
			return
		}
		f := pres.Frame()
		if f == nil {
			writeError(w, http.StatusServiceUnavailable, errNoFrame.Error())
			return
		}
		if f.Source != ctrl.Name() || f.LR0 != calculator.Clamp(v, params.MinLR0, params.MaxLR0) {
			writeError(w, http.StatusConflict, fmt.Sprintf("update to lr0 %.2f was not applied", v))
			return
		}
		writeJSON(w, http.StatusOK, summarize(f))
	}
}

// FrameHandler returns the frame on display; ?full=1 includes the samples.
func FrameHandler(pres *Presenter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := pres.Frame()
		if f == nil {
			writeError(w, http.StatusServiceUnavailable, errNoFrame.Error())
			return
		}
		if r.URL.Query().Get("full") == "1" {
			writeJSON(w, http.StatusOK, f)
			return
		}
		writeJSON(w, http.StatusOK, summarize(f))
	}
}

// ChartHandler serves the rendered chart in the given content type.
func ChartHandler(contentType string, draw func() ([]byte, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := draw()
		if errors.Is(err, errNoFrame) {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(b)
	}
}

// PageHandler serves the slider page.
func PageHandler(params model.Params, pres *Presenter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		value := params.InitialLR0
		if f := pres.Frame(); f != nil {
			value = f.LR0
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := pageTmpl.Execute(w, pageData{Min: params.MinLR0, Max: params.MaxLR0, Value: value}); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
	}
}

type pageData struct {
	Min, Max, Value float64
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>LeverageScope</title>
<style>
body { font-family: sans-serif; margin: 24px; }
#chart { width: 100%; max-width: 1200px; }
.control { display: flex; align-items: center; gap: 12px; max-width: 1200px; }
.control input { flex: 1; }
</style>
</head>
<body>
<img id="chart" src="/chart.svg" alt="leverage ratios">
<div class="control">
  <label for="lr0">LR(0)</label>
  <input id="lr0" type="range" min="{{.Min}}" max="{{.Max}}" step="0.01" value="{{.Value}}">
  <span id="value">{{printf "%.2f" .Value}}</span>
</div>
<script>
const slider = document.getElementById("lr0");
const label = document.getElementById("value");
const chart = document.getElementById("chart");
let pending = false;
let sent = null;
async function post() {
  if (pending) return;
  pending = true;
  const value = Number(slider.value);
  try {
    const resp = await fetch("/api/lr0", {
      method: "POST",
      headers: {"Content-Type": "application/json"},
      body: JSON.stringify({lr0: value}),
    });
    if (resp.status === 429) {
      await new Promise(r => setTimeout(r, 100));
    } else {
      sent = value;
      if (resp.ok) chart.src = "/chart.svg?ts=" + Date.now();
    }
  } finally {
    pending = false;
  }
  if (Number(slider.value) !== sent) post();
}
slider.addEventListener("input", () => {
  label.textContent = Number(slider.value).toFixed(2);
  post();
});
slider.addEventListener("change", post);
</script>
</body>
</html>
`))
