package config

const DvaultConfigTemplate = `chain = "{{ .Chain }}"
owner = "{{ .Owner }}"

db_host = "{{ .DbHost }}"
db_port = {{ .DbPort }}
db_username = "{{ .DbUsername }}"
db_password = "{{ .DbPassword }}"
db_schema = "{{ .DbSchema }}"

server_port = {{ .ServerPort }}
gas_service_url = "{{ .GasServiceUrl }}"
flow_epoch_seconds = {{ .FlowEpochSeconds }}

[remote_services]{{ range $k, $v := .RemoteServices }}
	[remote_services.{{ $k }}]
	chain = "{{ $k }}"
	address = "{{ $v.Address }}"
{{ end }}
`
