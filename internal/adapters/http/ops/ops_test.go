package ops_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/hdwatch/internal/adapters/http/ops"
	"github.com/smartystreets/goconvey/convey"
)

func TestOpsEndpoints(t *testing.T) {
	convey.Convey("Given the ops routes", t, func() {
		mux := http.NewServeMux()
		ops.Register(context.Background(), mux)
		srv := httptest.NewServer(mux)
		defer srv.Close()

		convey.Convey("When probing /healthz", func() {
			resp, err := http.Get(srv.URL + "/healthz")
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			convey.Convey("Then it answers ok as JSON", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
				convey.So(resp.Header.Get("Content-Type"), convey.ShouldEqual, "application/json")
			})
		})

		convey.Convey("When posting to /healthz", func() {
			resp, err := http.Post(srv.URL+"/healthz", "text/plain", nil)
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			convey.Convey("Then the method is rejected", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusMethodNotAllowed)
			})
		})

		convey.Convey("When scraping /metrics", func() {
			resp, err := http.Get(srv.URL + "/metrics")
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			convey.Convey("Then the Prometheus registry is served", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			})
		})
	})
}
