package model

import "fmt"

// ClusterDescription is the presentational record shown for a cluster.
type ClusterDescription struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
	Hex         string `json:"-"`
}

// ActivityDescriptions is ordered from least to most active.
// Entry r describes the cluster ranked r-th by mean daily steps.
var ActivityDescriptions = []ClusterDescription{
	{
		Name:        "Estilo de Vida Sedentario",
		Description: "Baja actividad física con IMC más alto. Considera aumentar los pasos diarios y mantener una dieta equilibrada.",
		Color:       "bg-red-100 text-red-800 border-red-200",
		Icon:        "🚶‍♂️",
		Hex:         "#ef4444",
	},
	{
		Name:        "Moderadamente Activo",
		Description: "Buen equilibrio entre IMC y actividad diaria. ¡Sigue así!",
		Color:       "bg-yellow-100 text-yellow-800 border-yellow-200",
		Icon:        "🏃‍♂️",
		Hex:         "#f59e0b",
	},
	{
		Name:        "Altamente Activo",
		Description: "Excelente perfil de fitness con IMC óptimo y altos niveles de actividad.",
		Color:       "bg-green-100 text-green-800 border-green-200",
		Icon:        "🏋️‍♂️",
		Hex:         "#10b981",
	},
}

// FallbackDescription describes a cluster that has no entry in ActivityDescriptions.
func FallbackDescription(clusterID int) ClusterDescription {
	return ClusterDescription{
		Name:        fmt.Sprintf("Grupo %d", clusterID),
		Description: "Clasificación completada.",
		Color:       "bg-blue-100 text-blue-800 border-blue-200",
		Icon:        "📊",
		Hex:         "#3b82f6",
	}
}
