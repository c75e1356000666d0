package main

// @title Preference Service API
// @version 1.0
// @description Per-user favorite datatype preferences: mark, unmark and list favorite datatype tags.

// @contact.name API Support
// @contact.email support@example.com

// @license.name MIT

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name Favorites
// @tag.description Favorite datatype endpoints

// @tag.name Catalog
// @tag.description Datatype registry endpoints

// @tag.name Health
// @tag.description Health check endpoints
