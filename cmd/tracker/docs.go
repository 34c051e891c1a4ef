package main

//go:generate swag init -g cmd/tracker/main.go -o docs

// @title           Trackit Price Tracker API
// @version         0.1.0
// @description     Product catalog, price history, and tracking loop controls.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
