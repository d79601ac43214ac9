package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SODECA Portal API",
        "description": "Student certificate submission and review portal",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Registration, login and Google sign-in"},
        {"name": "Profile", "description": "Student detail record"},
        {"name": "Workflow", "description": "Form selection, verification and submission"},
        {"name": "Review", "description": "Staff submission review and sheet exports"},
        {"name": "BloodDonation", "description": "Flat CSV donation ledger"}
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
        "/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register a local account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email already registered"}
                }
            }
        },
        "/login": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Report whether the caller holds an active session",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate with email and password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid email or password"}
                }
            }
        },
        "/logout": {
            "get": {
                "tags": ["Authentication"],
                "summary": "End the current session",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/auth/google": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Start Google sign-in",
                "responses": {
                    "302": {"description": "Redirect to consent page"}
                }
            }
        },
        "/auth/google/callback": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Complete Google sign-in",
                "parameters": [
                    {"name": "state", "in": "query", "required": true, "type": "string"},
                    {"name": "code", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Authentication failed"}
                }
            }
        },
        "/student_details": {
            "get": {
                "tags": ["Profile"],
                "summary": "Get student details",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Details not filled yet"}
                }
            },
            "post": {
                "tags": ["Profile"],
                "summary": "Save student details",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sodeca_forms": {
            "get": {
                "tags": ["Workflow"],
                "summary": "List selectable forms",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Workflow"],
                "summary": "Choose the forms to submit",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SelectFormsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "No forms selected"}
                }
            }
        },
        "/verify_student_details": {
            "get": {
                "tags": ["Workflow"],
                "summary": "Show the details to verify",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Workflow order violation"}
                }
            },
            "post": {
                "tags": ["Workflow"],
                "summary": "Confirm the student details",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Workflow order violation"}
                }
            }
        },
        "/fill_form": {
            "get": {
                "tags": ["Workflow"],
                "summary": "Get the form to fill next",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Workflow order violation"}
                }
            },
            "post": {
                "tags": ["Workflow"],
                "summary": "Submit the current form",
                "consumes": ["multipart/form-data"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Field validation errors"},
                    "409": {"description": "Workflow order violation"}
                }
            }
        },
        "/check_submissions": {
            "get": {
                "tags": ["Review"],
                "summary": "List all stored submissions",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Staff access required"}
                }
            }
        },
        "/check_submissions/{form}/{studentId}": {
            "patch": {
                "tags": ["Review"],
                "summary": "Change a submission's review state",
                "parameters": [
                    {"name": "form", "in": "path", "required": true, "type": "string"},
                    {"name": "studentId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StatusUpdateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No submission for this student"}
                }
            }
        },
        "/update_sheets": {
            "post": {
                "tags": ["Review"],
                "summary": "Queue a review sheet export",
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Staff access required"}
                }
            }
        },
        "/exports/{token}": {
            "get": {
                "tags": ["Review"],
                "summary": "Download a rendered export",
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File content"},
                    "403": {"description": "Invalid or expired link"},
                    "404": {"description": "Export not ready"}
                }
            }
        },
        "/blood_donation": {
            "get": {
                "tags": ["BloodDonation"],
                "summary": "Describe the donation entry fields",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["BloodDonation"],
                "summary": "Record a blood donation entry",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BloodDonationEntry"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "confirm_password": {"type": "string"}
            },
            "required": ["email", "password", "confirm_password"]
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "ProfileRequest": {
            "type": "object",
            "properties": {
                "university_roll_no": {"type": "string"},
                "student_name": {"type": "string"},
                "branch": {"type": "string"},
                "semester": {"type": "integer"},
                "section": {"type": "string"},
                "class_group": {"type": "string"},
                "batch_counselor": {"type": "string"}
            },
            "required": ["university_roll_no", "student_name", "branch", "semester", "section", "class_group", "batch_counselor"]
        },
        "SelectFormsRequest": {
            "type": "object",
            "properties": {
                "forms": {
                    "type": "array",
                    "items": {"type": "string"}
                }
            },
            "required": ["forms"]
        },
        "StatusUpdateRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["pending", "approved", "rejected"]}
            },
            "required": ["status"]
        },
        "BloodDonationEntry": {
            "type": "object",
            "properties": {
                "event": {"type": "string"},
                "from_date": {"type": "string"},
                "to_date": {"type": "string"},
                "organizer": {"type": "string"},
                "venue": {"type": "string"},
                "certificate": {"type": "string"}
            },
            "required": ["event", "from_date", "to_date", "organizer", "venue", "certificate"]
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
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
