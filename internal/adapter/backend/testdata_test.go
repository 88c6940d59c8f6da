package backend

// simulationJSON is a representative backend response.
const simulationJSON = `{
  "energy": {
    "mass_kg": 1.96e11,
    "energy_joules": 2.83e19,
    "energy_megatons_tnt": 6763.5,
    "hiroshima_equivalent": 450900
  },
  "impact_effects": {
    "crater_diameter_m": 7400,
    "crater_depth_m": 1850,
    "fireball_radius_m": 4100,
    "thermal_effects_m": {"lethal": 0, "burns_3rd": 20000, "burns_2nd": null, "ignition": 50000},
    "blast_overpressure_radii_m": {"50_psi": 500, "10_psi": 1500, "5_psi": 3000, "1_psi": 8000, "2_psi": 5000},
    "blast_wind_effects": {"1_psi": {"wind_speed_kmh": 60}, "50_psi": {"wind_speed_kmh": 1500}}
  },
  "seismic_effects": {
    "moment_magnitude_Mw": 7.2,
    "regional_intensities": {
      "10_km": {"mmi": "IX", "pga_g": 0.6, "description": "Violent"},
      "100_km": {"mmi": "VI", "pga_g": 0.1, "description": "Strong"},
      "far": {"mmi": "II", "description": "Weak"}
    }
  },
  "tsunami_effects": {"likely": true, "max_wave_height_m": 35, "classification": "major", "notes": "Coastal flooding"},
  "location": {"lat": 35.5, "lon": -140.25}
}`
