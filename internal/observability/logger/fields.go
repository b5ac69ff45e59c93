package logger

import (
	"time"

	"go.uber.org/zap"
)

// =================================================================================
// CAMPOS ESTÁNDAR - HTTP
// =================================================================================

// RequestID crea un campo para el ID del request.
func RequestID(v string) zap.Field {
	return zap.String("request_id", v)
}

// Method crea un campo para el método HTTP.
func Method(v string) zap.Field {
	return zap.String("method", v)
}

// Path crea un campo para el path del request.
func Path(v string) zap.Field {
	return zap.String("path", v)
}

// Status crea un campo para el status code HTTP.
func Status(v int) zap.Field {
	return zap.Int("status", v)
}

// Duration crea un campo para la duración del request.
func Duration(v time.Duration) zap.Field {
	return zap.Duration("duration", v)
}

// Bytes crea un campo para los bytes escritos en la respuesta.
func Bytes(v int) zap.Field {
	return zap.Int("bytes", v)
}

// ClientIP crea un campo para la IP del cliente.
func ClientIP(v string) zap.Field {
	return zap.String("client_ip", v)
}

// UserAgent crea un campo para el User-Agent.
func UserAgent(v string) zap.Field {
	return zap.String("user_agent", v)
}

// =================================================================================
// CAMPOS ESTÁNDAR - NEGOCIO
// =================================================================================

// AdminID crea un campo para el ID del usuario admin.
func AdminID(v string) zap.Field {
	return zap.String("admin_id", v)
}

// ClientID crea un campo para el ID del cliente del widget.
func ClientID(v string) zap.Field {
	return zap.String("client_id", v)
}

// SiteID crea un campo para el identificador de sitio.
func SiteID(v string) zap.Field {
	return zap.String("site_id", v)
}

// Domain crea un campo para un dominio permitido.
func Domain(v string) zap.Field {
	return zap.String("domain", v)
}

// Subject crea un campo para el subject de un token.
func Subject(v string) zap.Field {
	return zap.String("subject", v)
}

// =================================================================================
// CAMPOS ESTÁNDAR - GENERALES
// =================================================================================

// Layer identifica la capa (controller, service, store, gate).
func Layer(v string) zap.Field {
	return zap.String("layer", v)
}

// Component identifica el componente dentro de la capa.
func Component(v string) zap.Field {
	return zap.String("component", v)
}

// Op identifica la operación en curso.
func Op(v string) zap.Field {
	return zap.String("op", v)
}

// Err crea un campo para un error.
func Err(err error) zap.Field {
	return zap.Error(err)
}

// Any crea un campo genérico.
func Any(key string, v any) zap.Field {
	return zap.Any(key, v)
}
