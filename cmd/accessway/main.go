package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type client struct {
	BaseURL   string
	Token     string
	OutFormat string // "json" | "text"
	HTTP      *http.Client
}

func (c *client) do(method, path string, body []byte) (int, []byte, error) {
	url := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b, nil
}

func (c *client) print(status int, body []byte) {
	if c.OutFormat == "json" {
		var v any
		if json.Unmarshal(body, &v) == nil {
			p, _ := json.MarshalIndent(v, "", "  ")
			fmt.Println(string(p))
			return
		}
	}
	if len(body) > 0 {
		fmt.Println(string(body))
	} else {
		fmt.Printf("status=%d\n", status)
	}
}

func (c *client) expect2xx(op string, status int, body []byte) error {
	if status/100 != 2 {
		return fmt.Errorf("%s fallo: status=%d body=%s", op, status, string(body))
	}
	return nil
}

func main() {
	var (
		baseURL = envOr("ACCESSWAY_URL", "http://localhost:8080")
		token   = envOr("ACCESSWAY_TOKEN", "")
		out     = envOr("ACCESSWAY_OUT", "text")
		timeout = 30 * time.Second
	)

	root := &cobra.Command{
		Use:   "accessway",
		Short: "CLI admin para AccessWay (vía /v1/auth y /v1/admin)",
	}
	root.PersistentFlags().StringVar(&baseURL, "url", baseURL, "URL base del API (env ACCESSWAY_URL)")
	root.PersistentFlags().StringVar(&token, "token", token, "Bearer token admin (env ACCESSWAY_TOKEN)")
	root.PersistentFlags().StringVar(&out, "out", out, "Formato de salida: json|text")

	cl := &client{HTTP: &http.Client{Timeout: timeout}}
	sync := func() {
		cl.BaseURL = baseURL
		cl.Token = token
		cl.OutFormat = out
	}

	// login: imprime el token para exportar en ACCESSWAY_TOKEN
	var loginEmail, loginPassword string
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Login admin: imprime el bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			sync()
			if loginEmail == "" || loginPassword == "" {
				return fmt.Errorf("--email y --password son requeridos")
			}
			b, _ := json.Marshal(map[string]string{"email": loginEmail, "password": loginPassword})
			status, body, err := cl.do("POST", "/v1/auth/admin/login", b)
			if err != nil {
				return err
			}
			if err := cl.expect2xx("login", status, body); err != nil {
				return err
			}
			var resp struct {
				Token string `json:"token"`
			}
			if err := json.Unmarshal(body, &resp); err != nil {
				return err
			}
			fmt.Println(resp.Token)
			return nil
		},
	}
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Email del admin")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Password del admin")

	requireToken := func(cmd *cobra.Command, args []string) error {
		sync()
		if token == "" {
			return fmt.Errorf("falta token (flag --token o env ACCESSWAY_TOKEN; ver `accessway login`)")
		}
		return nil
	}

	// ---- clients ----
	clientsCmd := &cobra.Command{Use: "clients", Short: "Operaciones sobre clientes", PersistentPreRunE: requireToken}

	var clLimit, clOffset int
	clientsListCmd := &cobra.Command{
		Use:   "list",
		Short: "Listar clientes",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("GET", fmt.Sprintf("/v1/admin/clients?limit=%d&offset=%d", clLimit, clOffset), nil)
			if err != nil {
				return err
			}
			if err := cl.expect2xx("clients list", status, body); err != nil {
				return err
			}
			cl.print(status, body)
			return nil
		},
	}
	clientsListCmd.Flags().IntVar(&clLimit, "limit", 50, "Máximo de filas")
	clientsListCmd.Flags().IntVar(&clOffset, "offset", 0, "Offset")

	var ccEmail, ccCompany, ccPassword string
	var ccSites []string
	clientsCreateCmd := &cobra.Command{
		Use:   "create",
		Short: "Crear cliente (la API key se imprime una sola vez)",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]any{
				"email":       ccEmail,
				"companyName": ccCompany,
				"password":    ccPassword,
			}
			if len(ccSites) > 0 {
				payload["siteIds"] = ccSites
			}
			b, _ := json.Marshal(payload)
			status, body, err := cl.do("POST", "/v1/admin/clients", b)
			if err != nil {
				return err
			}
			if err := cl.expect2xx("clients create", status, body); err != nil {
				return err
			}
			cl.print(status, body)
			return nil
		},
	}
	clientsCreateCmd.Flags().StringVar(&ccEmail, "email", "", "Email del cliente")
	clientsCreateCmd.Flags().StringVar(&ccCompany, "company", "", "Nombre de la empresa")
	clientsCreateCmd.Flags().StringVar(&ccPassword, "password", "", "Password inicial")
	clientsCreateCmd.Flags().StringSliceVar(&ccSites, "site", nil, "Site IDs permitidos (repetible)")

	var deactivateID string
	clientsDeactivateCmd := &cobra.Command{
		Use:   "deactivate",
		Short: "Desactivar un cliente (sus tokens dejan de resolver)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if deactivateID == "" {
				return fmt.Errorf("--id es requerido")
			}
			b, _ := json.Marshal(map[string]any{"isActive": false})
			status, body, err := cl.do("PATCH", "/v1/admin/clients/"+deactivateID, b)
			if err != nil {
				return err
			}
			if err := cl.expect2xx("clients deactivate", status, body); err != nil {
				return err
			}
			cl.print(status, body)
			return nil
		},
	}
	clientsDeactivateCmd.Flags().StringVar(&deactivateID, "id", "", "ID del cliente")

	clientsCmd.AddCommand(clientsListCmd, clientsCreateCmd, clientsDeactivateCmd)

	// ---- domains ----
	domainsCmd := &cobra.Command{Use: "domains", Short: "Operaciones sobre la allow-list de dominios", PersistentPreRunE: requireToken}

	domainsListCmd := &cobra.Command{
		Use:   "list",
		Short: "Listar dominios",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("GET", "/v1/admin/domains", nil)
			if err != nil {
				return err
			}
			if err := cl.expect2xx("domains list", status, body); err != nil {
				return err
			}
			cl.print(status, body)
			return nil
		},
	}

	var addDomain, addDescription string
	domainsAddCmd := &cobra.Command{
		Use:   "add",
		Short: "Agregar un dominio a la allow-list",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addDomain == "" {
				return fmt.Errorf("--domain es requerido")
			}
			b, _ := json.Marshal(map[string]string{"domain": addDomain, "description": addDescription})
			status, body, err := cl.do("POST", "/v1/admin/domains", b)
			if err != nil {
				return err
			}
			if err := cl.expect2xx("domains add", status, body); err != nil {
				return err
			}
			cl.print(status, body)
			return nil
		},
	}
	domainsAddCmd.Flags().StringVar(&addDomain, "domain", "", "Dominio (ej. example.com)")
	domainsAddCmd.Flags().StringVar(&addDescription, "description", "", "Descripción opcional")

	var rmDomainID string
	domainsRemoveCmd := &cobra.Command{
		Use:   "remove",
		Short: "Eliminar un dominio de la allow-list",
		RunE: func(cmd *cobra.Command, args []string) error {
			if rmDomainID == "" {
				return fmt.Errorf("--id es requerido")
			}
			status, body, err := cl.do("DELETE", "/v1/admin/domains/"+rmDomainID, nil)
			if err != nil {
				return err
			}
			if err := cl.expect2xx("domains remove", status, body); err != nil {
				return err
			}
			if cl.OutFormat == "text" {
				fmt.Println("ok")
				return nil
			}
			cl.print(status, body)
			return nil
		},
	}
	domainsRemoveCmd.Flags().StringVar(&rmDomainID, "id", "", "ID del dominio")

	domainsCmd.AddCommand(domainsListCmd, domainsAddCmd, domainsRemoveCmd)

	// ---- stats ----
	var stClientID, stSiteID, stFrom, stTo string
	statsCmd := &cobra.Command{
		Use:               "stats",
		Short:             "Agregados de telemetría",
		PersistentPreRunE: requireToken,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := make([]string, 0, 4)
			if stClientID != "" {
				q = append(q, "clientId="+stClientID)
			}
			if stSiteID != "" {
				q = append(q, "siteId="+stSiteID)
			}
			if stFrom != "" {
				q = append(q, "from="+stFrom)
			}
			if stTo != "" {
				q = append(q, "to="+stTo)
			}
			path := "/v1/admin/stats"
			if len(q) > 0 {
				path += "?" + strings.Join(q, "&")
			}
			status, body, err := cl.do("GET", path, nil)
			if err != nil {
				return err
			}
			if err := cl.expect2xx("stats", status, body); err != nil {
				return err
			}
			cl.print(status, body)
			return nil
		},
	}
	statsCmd.Flags().StringVar(&stClientID, "client", "", "Filtrar por client ID")
	statsCmd.Flags().StringVar(&stSiteID, "site", "", "Filtrar por site ID")
	statsCmd.Flags().StringVar(&stFrom, "from", "", "Desde (RFC3339)")
	statsCmd.Flags().StringVar(&stTo, "to", "", "Hasta (RFC3339)")

	root.AddCommand(loginCmd, clientsCmd, domainsCmd, statsCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
