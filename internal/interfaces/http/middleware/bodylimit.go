package middleware

import (
	"net/http"

	"github.com/bizdesk/erp/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// ErrCodeRequestTooLarge is returned when the body exceeds the limit
const ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"

// MultipartOverhead is the allowance for multipart headers and boundaries on
// top of the file size limit
const MultipartOverhead int64 = 1 << 20

// BodyLimit rejects bodies larger than maxBytes. A declared Content-Length
// is checked up front; chunked bodies fail while being read.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponseWithRequestID(
				ErrCodeRequestTooLarge,
				"Request body exceeds maximum allowed size",
				c.GetString(RequestIDKey),
			))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// UploadBodyLimit is BodyLimit for multipart uploads of files up to
// maxFileSize bytes
func UploadBodyLimit(maxFileSize int64) gin.HandlerFunc {
	return BodyLimit(maxFileSize + MultipartOverhead)
}
