package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vfg2006/marketing-report-api/internal/config"
	"github.com/vfg2006/marketing-report-api/pkg/apiErrors"
	"golang.org/x/crypto/bcrypt"
)

// ServiceAuth protege os endpoints de gatilho da coleta. O chamador (um
// agendador externo ou operador) apresenta o segredo de serviço como bearer
// token, ou um JWT HS256 de curta duração assinado com esse segredo.
func ServiceAuth(authConfig config.ServiceAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/healthcheck" {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				apiErrors.WriteError(w, apiErrors.ErrInvalidServiceToken, "Cabeçalho Authorization obrigatório", nil)
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				apiErrors.WriteError(w, apiErrors.ErrInvalidServiceToken, "Bearer token obrigatório", nil)
				return
			}

			if !validSecret(authConfig, tokenString) && !validServiceToken(authConfig, tokenString) {
				apiErrors.WriteError(w, apiErrors.ErrInvalidServiceToken, "Credenciais de serviço inválidas", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// validSecret compara o token com o hash bcrypt do segredo de serviço
func validSecret(authConfig config.ServiceAuth, token string) bool {
	if authConfig.SecretHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(authConfig.SecretHash), []byte(token)) == nil
}

// validServiceToken aceita um JWT HS256 assinado com o segredo de serviço
func validServiceToken(authConfig config.ServiceAuth, tokenString string) bool {
	if authConfig.Secret == "" {
		return false
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(authConfig.Secret), nil
	})
	if err != nil {
		return false
	}

	return token.Valid
}
