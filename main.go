package main

import (
	"log"
	"net/http"

	"github.com/km-arc/simpledi/framework/app"
	"github.com/km-arc/simpledi/framework/container"
	gohttp "github.com/km-arc/simpledi/framework/http"
	"github.com/km-arc/simpledi/framework/routing"
	"github.com/km-arc/simpledi/framework/validation"
)

// Greeter is assembled by the container from the "greeting" and
// "punctuation" bindings.
type Greeter struct {
	Greeting    string
	Punctuation string
}

func (g *Greeter) Greet(name string) string {
	return g.Greeting + ", " + name + g.Punctuation
}

// Roster greets every name in the "guests" list.
type Roster struct {
	greeter *Greeter
	guests  []string
}

func NewRoster(g *Greeter, guests []string) *Roster {
	return &Roster{greeter: g, guests: guests}
}

func (r *Roster) Greetings() []string {
	out := make([]string, len(r.guests))
	for i, name := range r.guests {
		out[i] = r.greeter.Greet(name)
	}
	return out
}

func main() {
	application, err := app.New() // loads .env automatically
	if err != nil {
		log.Fatal(err)
	}

	// ── Bindings ──────────────────────────────────────────────────────────────

	application.Set("greeting", container.Instance("Hello"))
	application.Set("punctuation", container.Instance("!"))
	application.Set("greeter", container.Cache(container.Auto[*Greeter]()))
	application.Set("guests", container.List(
		container.Instance("Ada"),
		container.Instance("Grace"),
	))
	application.Set("roster", container.Builder(NewRoster, "greeter", "guests"))

	// ── Routes ────────────────────────────────────────────────────────────────

	err = application.AddRoutes(routing.RegistrarFunc(func(r *routing.Router) {
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			res := gohttp.NewResponse(w)
			roster, err := gohttp.Resolve[*Roster](req, "roster")
			if err != nil {
				res.ResolutionError(err)
				return
			}
			res.Success(roster.Greetings())
		})

		r.Prefix("/api/v1", func(api *routing.Router) {
			// GET /api/v1/greet/{name}
			api.Get("/greet/{name}", func(w http.ResponseWriter, req *http.Request) {
				res := gohttp.NewResponse(w)
				greeter, err := gohttp.Resolve[*Greeter](req, "greeter")
				if err != nil {
					res.ResolutionError(err)
					return
				}
				res.Success(greeter.Greet(gohttp.NewRequest(req).RouteParam("name")))
			})

			// POST /api/v1/guests adds a guest to the roster
			api.Post("/guests", func(w http.ResponseWriter, req *http.Request) {
				request := gohttp.NewRequest(req)
				res := gohttp.NewResponse(w)

				var body struct {
					Name string `json:"name"`
				}
				if err := request.Bind(&body); err != nil {
					res.Error(http.StatusBadRequest, err.Error())
					return
				}

				v := validation.Make(map[string]string{"name": body.Name}, validation.Rules{
					"name": "required|alpha_dash|min:2|max:40",
				})
				if v.Fails() {
					res.ValidationError(v.Errors())
					return
				}

				guests, err := container.ProviderAs[*container.ListProvider](application.Container, "guests")
				if err != nil {
					res.ResolutionError(err)
					return
				}
				guests.Add(container.Instance(body.Name))
				res.Created(map[string]any{"name": body.Name, "guests": guests.Len()})
			})
		})
	}))
	if err != nil {
		log.Fatal(err)
	}

	if err := application.Run(); err != nil {
		log.Fatal(err)
	}
}
