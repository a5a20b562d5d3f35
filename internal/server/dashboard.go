package server

import "net/http"

// DashboardHandler serves a small self-refreshing HTML page for quick
// monitoring against /latest and /alerts.
func DashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(dashboardHTML))
	}
}

const dashboardHTML = `<!DOCTYPE html>
<html>
<head>
    <title>Aquaponics Dashboard</title>
    <style>
        body { font-family: Arial, sans-serif; padding: 20px; background: #1a1a2e; color: #eee; }
        h1 { color: #4ecca3; }
        .card { background: #16213e; padding: 15px; margin: 10px 0; border-radius: 8px; }
        .value { font-size: 24px; font-weight: bold; color: #4ecca3; }
        .label { color: #888; }
        .grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(200px, 1fr)); gap: 15px; }
        .alert { background: #e94560; padding: 10px; border-radius: 5px; margin: 5px 0; }
        .ok { background: #4ecca3; color: #000; }
    </style>
</head>
<body>
    <h1>Aquaponics IoT Dashboard</h1>
    <div id="content">Loading...</div>
    <script>
        async function update() {
            try {
                const latest = await fetch('/latest').then(r => r.json());
                const alerts = await fetch('/alerts').then(r => r.json());

                if (latest.message) {
                    document.getElementById('content').innerHTML = '<p>' + latest.message + '</p>';
                    return;
                }

                let html = '<div class="card ' + (alerts.alert_count === 0 ? 'ok' : '') + '">';
                html += '<strong>Status:</strong> ' + (latest.diagnosis || 'Unknown') + '</div>';

                html += '<div class="grid">';
                html += '<div class="card"><div class="label">Water Temp</div><div class="value">' + latest.water_temp_C + '&deg;C</div></div>';
                html += '<div class="card"><div class="label">Air Temp</div><div class="value">' + latest.air_temp_C + '&deg;C</div></div>';
                html += '<div class="card"><div class="label">pH</div><div class="value">' + latest.pH + '</div></div>';
                html += '<div class="card"><div class="label">Dissolved O2</div><div class="value">' + latest.dissolved_oxygen_mgL + ' mg/L</div></div>';
                html += '<div class="card"><div class="label">Ammonia</div><div class="value">' + latest.ammonia_mgL + ' mg/L</div></div>';
                html += '<div class="card"><div class="label">Water Level</div><div class="value">' + latest.water_level_percent + '%</div></div>';
                html += '<div class="card"><div class="label">EC</div><div class="value">' + latest.ec_uScm + ' &micro;S/cm</div></div>';
                html += '<div class="card"><div class="label">Humidity</div><div class="value">' + latest.humidity_percent + '%</div></div>';
                html += '<div class="card"><div class="label">Light</div><div class="value">' + latest.light_lux + ' lux</div></div>';
                html += '<div class="card"><div class="label">Pump</div><div class="value">' + latest.pump_status + '</div></div>';
                html += '</div>';

                if (alerts.alerts && alerts.alerts.length > 0) {
                    html += '<h2>Alerts</h2>';
                    alerts.alerts.forEach(a => {
                        html += '<div class="alert">' + a.message + '</div>';
                    });
                }

                html += '<p style="color:#666;margin-top:20px;">Last update: ' + latest.timestamp + '</p>';

                document.getElementById('content').innerHTML = html;
            } catch(e) {
                document.getElementById('content').innerHTML = '<p>Error loading data: ' + e + '</p>';
            }
        }
        update();
        setInterval(update, 5000);
    </script>
</body>
</html>
`
