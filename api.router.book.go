package main

import (
	"github.com/julienschmidt/httprouter"
)

// SetupBookRoutes injects book related the api endpoints.
func (api *APIHandler) SetupBookRoutes(router *httprouter.Router, m *MiddlewareMap) *httprouter.Router {
	router.RedirectTrailingSlash = true
	router.GET("/", m.public(api.Index))
	router.GET("/hello-world", m.public(api.HelloWorld))
	router.GET("/random-book", m.public(api.RandomBook))
	router.GET("/books", m.public(api.GetAllBooks))
	router.GET("/books-by-index/:index", m.public(api.GetBookByIndex))
	router.POST("/add-book", m.public(api.CreateBook))
	router.POST("/update-book/:book_id", m.public(api.UpdateBook))
	router.GET("/book-by-id", m.public(api.GetBookByID))
	router.DELETE("/delete-book", m.public(api.DeleteBook))
	return router
}
