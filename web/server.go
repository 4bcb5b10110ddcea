package web

import (
	"log"
	"net/http"
	"os"
	"path"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/mogaika/mdx_browser/viewer"
)

var ServerViewer *viewer.Viewer

func StartServer(addr string, v *viewer.Viewer, webPath string) error {
	ServerViewer = v

	r := mux.NewRouter()
	r.HandleFunc("/json/model", HandlerAjaxModel)
	r.HandleFunc("/json/model/sequences", HandlerAjaxSequences)
	r.HandleFunc("/json/model/pose", HandlerAjaxPose)
	r.HandleFunc("/json/model/geoset/{id}", HandlerAjaxGeoset)
	r.HandleFunc("/json/playback", HandlerAjaxPlayback)
	r.HandleFunc("/action/playback/{action}", HandlerActionPlayback)
	r.HandleFunc("/upload/model", HandlerUploadModel)
	r.HandleFunc("/dump/gltf", HandlerDumpGLTF)
	r.HandleFunc("/ws/pose", HandlerWsPose)

	r.PathPrefix("/").Handler(http.FileServer(http.Dir(path.Join(webPath, "data"))))

	h := handlers.RecoveryHandler()(r)
	h = handlers.LoggingHandler(os.Stdout, h)

	startPoseStream(v)

	log.Printf("[web] Starting server %v", addr)

	return http.ListenAndServe(addr, h)
}
