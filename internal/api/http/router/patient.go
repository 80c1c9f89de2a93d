package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/vitum_backend/internal/api/http/handler"
)

func (r *Router) registerPatientRoutes(api fiber.Router, ph *handler.PatientHandler, pkh *handler.PackageHandler, eh *handler.EvolutionHandler) {
	patients := api.Group("/patients")
	patients.Get("/", ph.List)
	patients.Post("/", ph.Create)

	p := patients.Group("/:id")
	p.Get("/", ph.Get)
	p.Patch("/", ph.Update)
	p.Patch("/deactivate", ph.Deactivate)
	p.Patch("/activate", ph.Activate)
	p.Delete("/", ph.Delete)

	p.Get("/anamnesis", ph.Anamnesis)
	p.Put("/anamnesis", ph.UpdateAnamnesis)

	p.Get("/evolutions", eh.ListForPatient)
	p.Post("/evolutions", eh.Record)

	p.Get("/packages", pkh.ListForPatient)
	p.Post("/packages", pkh.Create)

	api.Delete("/evolutions/:id", eh.Delete)
}
