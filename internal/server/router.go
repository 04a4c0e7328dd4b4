package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/nexum-labs/nexum/backend/internal/auth"
	"github.com/nexum-labs/nexum/backend/internal/databases"
	"github.com/nexum-labs/nexum/backend/internal/documents"
	"github.com/nexum-labs/nexum/backend/internal/kanban"
	"github.com/nexum-labs/nexum/backend/internal/projects"
	"github.com/nexum-labs/nexum/backend/internal/properties"
	"github.com/nexum-labs/nexum/backend/internal/rows"
	"github.com/nexum-labs/nexum/backend/internal/search"
	"go.uber.org/zap"
)

const subjectContextKey = "nexum_subject"

var (
	errMissingTokenIssuer      = errors.New("token issuer dependency required")
	errMissingProjectService   = errors.New("project service dependency required")
	errMissingDocumentService  = errors.New("document service dependency required")
	errMissingDatabaseService  = errors.New("database service dependency required")
	errMissingPropertyRegistry = errors.New("property registry dependency required")
	errMissingRowService       = errors.New("row service dependency required")
	errMissingSearchService    = errors.New("search service dependency required")
	errInvalidAuthorization    = errors.New("authorization header missing or invalid")
)

// TokenIssuer is the authentication collaborator the router needs.
type TokenIssuer interface {
	Login(username, password string) (auth.TokenPair, error)
	Refresh(refreshToken string) (string, int64, error)
	ValidateAccessToken(token string) (string, error)
}

// Dependencies wires the constructed services into the HTTP handler.
type Dependencies struct {
	TokenIssuer      TokenIssuer
	ProjectService   *projects.Service
	DocumentService  *documents.Service
	DatabaseService  *databases.Service
	PropertyRegistry *properties.Registry
	RowService       *rows.Service
	SearchService    *search.Service
	Logger           *zap.Logger
}

// NewHTTPHandler builds the gin router with CORS, auth middleware and every
// API route registered.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.TokenIssuer == nil {
		return nil, errMissingTokenIssuer
	}
	if deps.ProjectService == nil {
		return nil, errMissingProjectService
	}
	if deps.DocumentService == nil {
		return nil, errMissingDocumentService
	}
	if deps.DatabaseService == nil {
		return nil, errMissingDatabaseService
	}
	if deps.PropertyRegistry == nil {
		return nil, errMissingPropertyRegistry
	}
	if deps.RowService == nil {
		return nil, errMissingRowService
	}
	if deps.SearchService == nil {
		return nil, errMissingSearchService
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	handler := &httpHandler{
		tokens:    deps.TokenIssuer,
		projects:  deps.ProjectService,
		documents: deps.DocumentService,
		databases: deps.DatabaseService,
		registry:  deps.PropertyRegistry,
		rows:      deps.RowService,
		search:    deps.SearchService,
		logger:    logger,
	}

	api := router.Group("/api")
	api.POST("/auth/login", handler.handleLogin)
	api.POST("/auth/refresh", handler.handleRefresh)

	protected := api.Group("/")
	protected.Use(handler.authorizeRequest)

	protected.GET("/projects", handler.handleListProjects)
	protected.GET("/projects/:id", handler.handleGetProject)
	protected.POST("/projects", handler.handleCreateProject)
	protected.PATCH("/projects/:id", handler.handleRenameProject)
	protected.DELETE("/projects/:id", handler.handleDeleteProject)

	protected.GET("/documents", handler.handleListDocuments)
	protected.GET("/documents/:id", handler.handleGetDocument)
	protected.POST("/documents", handler.handleCreateDocument)
	protected.PATCH("/documents/:id", handler.handleUpdateDocument)
	protected.DELETE("/documents/:id", handler.handleDeleteDocument)

	protected.GET("/databases", handler.handleListDatabases)
	protected.GET("/databases/templates", handler.handleListTemplates)
	protected.GET("/databases/:databaseId", handler.handleGetDatabase)
	protected.POST("/databases", handler.handleCreateDatabase)
	protected.PATCH("/databases/:databaseId", handler.handleRenameDatabase)
	protected.PATCH("/databases/:databaseId/view-type", handler.handleUpdateViewType)
	protected.DELETE("/databases/:databaseId", handler.handleDeleteDatabase)

	protected.GET("/databases/:databaseId/properties", handler.handleListProperties)
	protected.POST("/databases/:databaseId/properties", handler.handleCreateProperty)
	protected.PATCH("/databases/:databaseId/properties/:id", handler.handleUpdateProperty)
	protected.DELETE("/databases/:databaseId/properties/:id", handler.handleDeleteProperty)

	protected.GET("/databases/:databaseId/rows", handler.handleListRows)
	protected.POST("/databases/:databaseId/rows", handler.handleCreateRow)
	protected.PATCH("/databases/:databaseId/rows/reorder", handler.handleReorderRows)
	protected.PATCH("/databases/:databaseId/rows/:id", handler.handleUpdateRowOrder)
	protected.DELETE("/databases/:databaseId/rows/:id", handler.handleDeleteRow)

	protected.PUT("/rows/:rowId/cells/:propertyId", handler.handleUpsertCell)
	protected.DELETE("/rows/:rowId/cells/:propertyId", handler.handleDeleteCell)

	protected.GET("/databases/:databaseId/board", handler.handleGetBoard)
	protected.POST("/databases/:databaseId/board/move", handler.handleBoardMove)

	protected.GET("/search", handler.handleSearch)

	return router, nil
}

type httpHandler struct {
	tokens    TokenIssuer
	projects  *projects.Service
	documents *documents.Service
	databases *databases.Service
	registry  *properties.Registry
	rows      *rows.Service
	search    *search.Service
	logger    *zap.Logger
}

func (h *httpHandler) authorizeRequest(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errInvalidAuthorization.Error()})
		return
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errInvalidAuthorization.Error()})
		return
	}
	subject, err := h.tokens.ValidateAccessToken(token)
	if err != nil {
		h.logger.Warn("token validation failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Set(subjectContextKey, subject)
	c.Next()
}

var notFoundErrors = []error{
	projects.ErrProjectNotFound,
	documents.ErrDocumentNotFound,
	databases.ErrDatabaseNotFound,
	databases.ErrTemplateNotFound,
	properties.ErrPropertyNotFound,
	rows.ErrRowNotFound,
	kanban.ErrColumnNotFound,
	kanban.ErrRowNotOnBoard,
}

var validationErrors = []error{
	projects.ErrNameRequired,
	projects.ErrMaxDepthExceeded,
	documents.ErrTitleRequired,
	databases.ErrNameRequired,
	databases.ErrInvalidViewType,
	properties.ErrNameRequired,
	properties.ErrInvalidType,
	rows.ErrEmptyReorder,
	kanban.ErrNotSelectProperty,
}

type coded interface {
	Code() string
}

// writeServiceError maps the error taxonomy onto HTTP statuses: missing
// entities become 404, validation failures 400, anything else an opaque 500.
func (h *httpHandler) writeServiceError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	for _, sentinel := range notFoundErrors {
		if errors.Is(err, sentinel) {
			status = http.StatusNotFound
			break
		}
	}
	if status == http.StatusInternalServerError {
		for _, sentinel := range validationErrors {
			if errors.Is(err, sentinel) {
				status = http.StatusBadRequest
				break
			}
		}
	}

	message := "operation_failed"
	var withCode coded
	if errors.As(err, &withCode) {
		message = withCode.Code()
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
	}
	c.JSON(status, gin.H{"error": message})
}
