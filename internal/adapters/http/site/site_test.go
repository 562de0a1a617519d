package site

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSiteHandler(t *testing.T) {
	Convey("Given a site handler", t, func() {
		ctx := context.Background()
		router := mux.NewRouter()

		Convey("When registering the site handler", func() {
			Register(ctx, router)

			Convey("Then it should serve the landing page at /", func() {
				req := httptest.NewRequest("GET", "/", nil)
				w := httptest.NewRecorder()
				router.ServeHTTP(w, req)

				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
				So(w.Body.String(), ShouldContainSubstring, "Quiniela")
			})

			Convey("And unknown files should return 404", func() {
				req := httptest.NewRequest("GET", "/nope.css", nil)
				w := httptest.NewRecorder()
				router.ServeHTTP(w, req)

				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestSiteHandlerWithNilRouter(t *testing.T) {
	Convey("Given a nil router", t, func() {
		Convey("Then registering should panic", func() {
			So(func() { Register(context.Background(), nil) }, ShouldPanic)
		})
	})
}

func TestFS(t *testing.T) {
	Convey("Given the embedded filesystem", t, func() {
		fsys := FS()

		Convey("Then the index page should open", func() {
			f, err := fsys.Open("/index.html")
			So(err, ShouldBeNil)
			So(f.Close(), ShouldBeNil)
		})
	})
}
