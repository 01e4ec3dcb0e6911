package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Packarma Admin API",
        "description": "Back-office API: master data, customers, staff permissions and exports",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Admin sessions and passwords"},
        {"name": "Categories", "description": "Product category master"},
        {"name": "SubCategories", "description": "Product sub-category master"},
        {"name": "Banners", "description": "App banner management"},
        {"name": "Advertisements", "description": "App advertisement management"},
        {"name": "Subscriptions", "description": "Subscription plans and customer purchases"},
        {"name": "CreditPrices", "description": "Per-currency credit pricing"},
        {"name": "Packaging", "description": "Packaging materials, treatments and types"},
        {"name": "MeasurementUnits", "description": "Measurement unit master"},
        {"name": "Customers", "description": "App customer accounts"},
        {"name": "Reports", "description": "Enquiry and referral reports"},
        {"name": "Staff", "description": "Staff accounts and permission grants"},
        {"name": "Exports", "description": "Dataset exports in xlsx, csv and pdf"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        }
    },
    "definitions": {
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "current_page": {"type": "integer"},
                "total_pages": {"type": "integer"},
                "total_items": {"type": "integer"},
                "items_per_page": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
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
