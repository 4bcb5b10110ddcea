package web

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mogaika/mdx_browser/mdx"
	"github.com/mogaika/mdx_browser/webutils"
)

func HandlerAjaxModel(w http.ResponseWriter, r *http.Request) {
	m := ServerViewer.Model()
	if m == nil {
		webutils.WriteError(w, fmt.Errorf("No model loaded"))
		return
	}
	webutils.WriteJson(w, m)
}

func HandlerAjaxSequences(w http.ResponseWriter, r *http.Request) {
	m := ServerViewer.Model()
	if m == nil {
		webutils.WriteError(w, fmt.Errorf("No model loaded"))
		return
	}
	webutils.WriteJson(w, m.Sequences)
}

func HandlerAjaxPose(w http.ResponseWriter, r *http.Request) {
	frame, err := webutils.QueryFloat(r, "frame", 0)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	pose, err := ServerViewer.PoseAt(float32(frame))
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteJson(w, pose)
}

func HandlerAjaxGeoset(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		webutils.WriteError(w, fmt.Errorf("param '%s' is not integer", mux.Vars(r)["id"]))
		return
	}
	frame, err := webutils.QueryFloat(r, "frame", 0)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	deform, err := ServerViewer.DeformedGeoset(id, float32(frame))
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteJson(w, deform)
}

func HandlerAjaxPlayback(w http.ResponseWriter, r *http.Request) {
	webutils.WriteJson(w, ServerViewer.Playback())
}

func HandlerActionPlayback(w http.ResponseWriter, r *http.Request) {
	action := mux.Vars(r)["action"]
	switch action {
	case "play":
		ServerViewer.Play()
	case "pause":
		ServerViewer.Pause()
	case "seek":
		frame, err := webutils.QueryFloat(r, "frame", 0)
		if err != nil {
			webutils.WriteError(w, err)
			return
		}
		ServerViewer.Seek(frame)
	case "sequence":
		id, err := webutils.QueryFloat(r, "id", 0)
		if err != nil {
			webutils.WriteError(w, err)
			return
		}
		ServerViewer.SetSequence(int(id))
	case "speed":
		speed, err := webutils.QueryFloat(r, "value", 1)
		if err != nil {
			webutils.WriteError(w, err)
			return
		}
		ServerViewer.SetSpeed(speed)
	default:
		webutils.WriteError(w, fmt.Errorf("Unknown playback action %q", action))
		return
	}
	webutils.WriteJson(w, ServerViewer.Playback())
}

// HandlerUploadModel replaces the displayed model with a POSTed model
// document. The swap happens only after the document decodes cleanly.
func HandlerUploadModel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		webutils.WriteError(w, fmt.Errorf("Invalid http method %q", r.Method))
		return
	}
	m, err := mdx.NewModelFromReader(r.Body)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	ServerViewer.ReplaceModel(m)
	log.Printf("[web] model %q uploaded", m.Name)
	webutils.WriteJson(w, struct {
		Loaded string `json:"loaded"`
	}{Loaded: m.Name})
}

func HandlerDumpGLTF(w http.ResponseWriter, r *http.Request) {
	frame, err := webutils.QueryFloat(r, "frame", 0)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := ServerViewer.ExportGLTF(&buf, float32(frame)); err != nil {
		webutils.WriteError(w, err)
		return
	}

	name := "model"
	if m := ServerViewer.Model(); m != nil && m.Name != "" {
		name = m.Name
	}
	webutils.WriteFile(w, &buf, name+".glb")
}
