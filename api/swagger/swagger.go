package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "CourseDeck API",
        "description": "Course catalog backend: auth, browsing, cart, enrollment and admin statistics",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "TokenAuth": {"type": "apiKey", "name": "x-auth-token", "in": "header"}
    },
    "tags": [
        {"name": "Authentication", "description": "Signup, login and session preferences"},
        {"name": "Courses", "description": "Catalog browsing and admin CRUD"},
        {"name": "Cart", "description": "Shopping cart"},
        {"name": "Enrollment", "description": "Course membership"},
        {"name": "Admin", "description": "Statistics and rosters"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/auth/signup": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register a new user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SignupRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AuthResponse"}},
                    "400": {"description": "Validation failure or duplicate username", "schema": {"$ref": "#/definitions/ErrorMessage"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate an account",
                "parameters": [
                    {"name": "role", "in": "query", "type": "string", "enum": ["user", "admin"]},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AuthResponse"}},
                    "400": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ErrorMessage"}},
                    "403": {"description": "Not an authorized admin", "schema": {"$ref": "#/definitions/ErrorMessage"}}
                }
            }
        },
        "/auth/google": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Start the Google OAuth flow",
                "responses": {
                    "307": {"description": "Redirect to consent screen"}
                }
            }
        },
        "/auth/google/callback": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Complete the Google OAuth flow",
                "responses": {
                    "307": {"description": "Redirect back to the frontend"}
                }
            }
        },
        "/auth/dark-mode": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Read the dark-mode preference",
                "security": [{"TokenAuth": []}],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Missing or invalid token", "schema": {"$ref": "#/definitions/ErrorMessage"}}
                }
            },
            "put": {
                "tags": ["Authentication"],
                "summary": "Update the dark-mode preference",
                "security": [{"TokenAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DarkModeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Missing or invalid token", "schema": {"$ref": "#/definitions/ErrorMessage"}}
                }
            }
        },
        "/auth/profile": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current account summary",
                "security": [{"TokenAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Profile"}},
                    "401": {"description": "Missing or invalid token", "schema": {"$ref": "#/definitions/ErrorMessage"}}
                }
            }
        },
        "/api/public/items": {
            "get": {
                "tags": ["Courses"],
                "summary": "Browse the catalog without signing in",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Course"}}}
                }
            }
        },
        "/api/items": {
            "get": {
                "tags": ["Courses"],
                "summary": "Browse the catalog (counts views)",
                "security": [{"TokenAuth": []}],
                "parameters": [
                    {"name": "id", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Course array, filtered to the given id; empty when nothing matches", "schema": {"type": "array", "items": {"$ref": "#/definitions/Course"}}}
                }
            }
        },
        "/api/item": {
            "post": {
                "tags": ["Courses"],
                "summary": "Add a course",
                "security": [{"TokenAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CourseInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Course"}},
                    "403": {"description": "Admin only", "schema": {"$ref": "#/definitions/ErrorMessage"}}
                }
            }
        },
        "/api/item/{id}": {
            "put": {
                "tags": ["Courses"],
                "summary": "Edit a course",
                "security": [{"TokenAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CourseInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Course"}},
                    "404": {"description": "Course not found", "schema": {"$ref": "#/definitions/ErrorMessage"}}
                }
            },
            "delete": {
                "tags": ["Courses"],
                "summary": "Remove a course",
                "security": [{"TokenAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Course not found", "schema": {"$ref": "#/definitions/ErrorMessage"}}
                }
            }
        },
        "/api/stats": {
            "get": {
                "tags": ["Admin"],
                "summary": "Per-course enrollment and view counters",
                "security": [{"TokenAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/CourseStats"}}},
                    "403": {"description": "Admin only", "schema": {"$ref": "#/definitions/ErrorMessage"}}
                }
            }
        },
        "/api/stats/export": {
            "get": {
                "tags": ["Admin"],
                "summary": "Download the stats as CSV or PDF",
                "security": [{"TokenAuth": []}],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ErrorMessage"}}
                }
            }
        },
        "/api/admin": {
            "get": {
                "tags": ["Admin"],
                "summary": "Admin landing probe",
                "security": [{"TokenAuth": []}],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Admin only", "schema": {"$ref": "#/definitions/ErrorMessage"}}
                }
            }
        },
        "/api/cart": {
            "get": {
                "tags": ["Cart"],
                "summary": "Current cart contents",
                "security": [{"TokenAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Course"}}}
                }
            }
        },
        "/api/cart/{courseId}": {
            "post": {
                "tags": ["Cart"],
                "summary": "Put a course in the cart",
                "security": [{"TokenAuth": []}],
                "parameters": [
                    {"name": "courseId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Resolved cart"},
                    "404": {"description": "Course not found", "schema": {"$ref": "#/definitions/ErrorMessage"}}
                }
            },
            "delete": {
                "tags": ["Cart"],
                "summary": "Take a course out of the cart",
                "security": [{"TokenAuth": []}],
                "parameters": [
                    {"name": "courseId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Resolved cart"}
                }
            }
        },
        "/api/enroll/{courseId}": {
            "post": {
                "tags": ["Enrollment"],
                "summary": "Enroll in a course",
                "security": [{"TokenAuth": []}],
                "parameters": [
                    {"name": "courseId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Enrolled"},
                    "404": {"description": "Course not found", "schema": {"$ref": "#/definitions/ErrorMessage"}}
                }
            },
            "delete": {
                "tags": ["Enrollment"],
                "summary": "Leave a course",
                "security": [{"TokenAuth": []}],
                "parameters": [
                    {"name": "courseId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Remaining enrolled courses"}
                }
            }
        },
        "/api/enrolled": {
            "get": {
                "tags": ["Enrollment"],
                "summary": "Courses the caller is enrolled in",
                "security": [{"TokenAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Course"}}}
                }
            }
        },
        "/api/enrollments/{courseId}": {
            "get": {
                "tags": ["Admin"],
                "summary": "Who is enrolled in a course",
                "security": [{"TokenAuth": []}],
                "parameters": [
                    {"name": "courseId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/CourseRoster"}},
                    "404": {"description": "Course not found", "schema": {"$ref": "#/definitions/ErrorMessage"}}
                }
            }
        }
    },
    "definitions": {
        "SignupRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "AuthResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "role": {"type": "string"},
                "darkMode": {"type": "boolean"}
            }
        },
        "DarkModeRequest": {
            "type": "object",
            "properties": {
                "darkMode": {"type": "boolean"}
            }
        },
        "Profile": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "role": {"type": "string"},
                "darkMode": {"type": "boolean"},
                "enrolledCourseCount": {"type": "integer"}
            }
        },
        "Course": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "instructor": {"type": "string"},
                "category": {"type": "string"},
                "price": {"type": "number"},
                "imageUrl": {"type": "string"},
                "duration": {"type": "string"},
                "enrollmentCount": {"type": "integer"},
                "views": {"type": "integer"}
            }
        },
        "CourseInput": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "instructor": {"type": "string"},
                "category": {"type": "string"},
                "price": {"type": "number"},
                "imageUrl": {"type": "string"},
                "duration": {"type": "string"}
            }
        },
        "CourseStats": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "enrollmentCount": {"type": "integer"},
                "views": {"type": "integer"}
            }
        },
        "CourseRoster": {
            "type": "object",
            "properties": {
                "courseTitle": {"type": "string"},
                "enrolledUsers": {"type": "array", "items": {"type": "string"}}
            }
        },
        "ErrorMessage": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
